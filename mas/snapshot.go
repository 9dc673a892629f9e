package mas

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// snapshotMagic - перший рядок файлу, щоб відрізнити знімок від сміття.
const snapshotMagic = "mas-snapshot-v1\n"

// writeSnapshot зберігає всю мапу агентів: zstd поверх gob.
// GOB сам збереже конкретні структури, сховані за інтерфейсом Agent,
// тому типи агентів мають бути зареєстровані через gob.Register().
func writeSnapshot(path string, agents map[string]Agent) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)
	if _, err := bw.WriteString(snapshotMagic); err != nil {
		return err
	}
	if err := gob.NewEncoder(bw).Encode(agents); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// readSnapshot читає знімок. Відсутній файл - os.IsNotExist(err).
func readSnapshot(path string) (map[string]Agent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	magic, err := br.ReadString('\n')
	if err != nil || magic != snapshotMagic {
		return nil, fmt.Errorf("%s is not an agent snapshot", path)
	}

	agents := make(map[string]Agent)
	if err := gob.NewDecoder(br).Decode(&agents); err != nil {
		return nil, fmt.Errorf("gob decode: %w", err)
	}
	return agents, nil
}
