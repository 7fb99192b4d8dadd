package driving

// DisplayService produces the seven-segment lookup table consumed by firmware.
type DisplayService interface {
	// Masks returns one segment mask per decimal digit.
	Masks() []uint8

	// Header renders the masks as a C header.
	Header() string
}
