package main

import (
	"fmt"
	"image/color"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youryharchenko/go-shrdlite/config"
	"github.com/youryharchenko/go-shrdlite/logging"
	"github.com/youryharchenko/go-shrdlite/mas"
	"github.com/youryharchenko/go-shrdlite/simulations/blocks"
	"github.com/youryharchenko/go-shrdlite/ui"
)

func main() {
	var (
		configPath string
		verbose    bool
	)
	root := &cobra.Command{
		Use:          "lab",
		Short:        "Blocks-world laboratory: agents, arm and board",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := logging.New(cfg.Logging, verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			run(cfg, logger)
			return nil
		},
	}
	root.Flags().StringVar(&configPath, "config", config.DefaultPath, "config file")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run відкриває вікно лабораторії і блокується до його закриття.
func run(cfg *config.Config, logger *zap.Logger) {
	a := app.New()
	w := a.NewWindow("SHRDLITE Laboratory")

	// 1. Система
	sys := mas.NewSystem(
		mas.WithLogger(logger),
		mas.WithMiddleware(mas.Stamp(), mas.Logging(logger.Named("mas"))),
	)

	// 2. Лог (спільний для всіх)
	logData := binding.NewString()
	_ = logData.Set("System started...")

	outputEntry := ui.NewLogEntry()
	outputEntry.Bind(logData)

	scroll := container.NewVScroll(outputEntry)
	logData.AddListener(binding.NewDataListener(func() {
		outputEntry.CursorRow = len(outputEntry.Text) - 1
		outputEntry.Refresh()
		scroll.ScrollToBottom()
	}))

	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(320, 0))
	rightStack := container.NewStack(spacer, scroll)

	// Консоль і адміністратор мають існувати до того, як світ почне писати.
	if err := sys.Spawn(ui.NewLogWindowAgent("console", logData)); err != nil {
		logger.Error("spawn console", zap.Error(err))
	}
	if err := sys.Spawn(ui.NewLogWindowAgent("admin", logData)); err != nil {
		logger.Error("spawn admin", zap.Error(err))
	}

	// 3. Вкладка світу кубиків
	blocksTab := blocks.NewScreen(sys, cfg)

	tabs := container.NewAppTabs(
		container.NewTabItem("Blocks World", blocksTab),
	)
	tabs.SetTabLocation(container.TabLocationTop)

	content := container.NewBorder(
		nil,        // Top
		nil,        // Bottom
		nil,        // Left
		rightStack, // Right
		tabs,       // Center
	)

	w.SetContent(content)
	w.Resize(fyne.NewSize(1100, 720))
	w.ShowAndRun()

	// GUI-агентів не зберігаємо
	sys.Kill("console")
	sys.Kill("admin")
	if err := sys.Shutdown(); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
