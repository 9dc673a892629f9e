package world

import "errors"

var (
	// ErrIllegalAction - дія порушує правила руки або фізики.
	// Для плану від планувальника це порушення внутрішньої узгодженості.
	ErrIllegalAction = errors.New("illegal action")

	// ErrInvalidWorld - опис світу або стан порушує інваріанти.
	ErrInvalidWorld = errors.New("invalid world")

	// ErrUnknownWorld - вбудованого світу з такою назвою немає.
	ErrUnknownWorld = errors.New("unknown world")
)
