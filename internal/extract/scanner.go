package extract

import "strings"

// ScanState is the state of an AddressScanner
type ScanState int

const (
	// ScanScanning looks for the delivery label
	ScanScanning ScanState = iota
	// ScanCapturing collects lines of the address block
	ScanCapturing
	// ScanDone means a stop token closed the block; further lines are ignored
	ScanDone
)

func (s ScanState) String() string {
	switch s {
	case ScanScanning:
		return "scanning"
	case ScanCapturing:
		return "capturing"
	case ScanDone:
		return "done"
	default:
		return "unknown"
	}
}

// AddressScanner walks page lines and collects the name and address block
// that follows the delivery label.
//
// Transitions:
//
//	Scanning  --label-->      Capturing
//	Capturing --label-->      Capturing (same-line content captured)
//	Capturing --stop token--> Done (line discarded)
type AddressScanner struct {
	label string
	stops []string

	state    ScanState
	captured []string
}

// NewAddressScanner returns a scanner for label that ends capture on any of
// stops
func NewAddressScanner(label string, stops []string) *AddressScanner {
	return &AddressScanner{
		label: label,
		stops: stops,
	}
}

// NewLineScanScanner returns a scanner with the line-scan label and stop set
func NewLineScanScanner() *AddressScanner {
	return NewAddressScanner(DeliveryLabel, lineScanStops)
}

// State returns the current state
func (s *AddressScanner) State() ScanState {
	return s.state
}

// Feed advances the scanner by one line and returns the resulting state
func (s *AddressScanner) Feed(line string) ScanState {
	if s.state == ScanDone {
		return s.state
	}

	clean := strings.TrimSpace(line)

	if strings.Contains(clean, s.label) {
		s.state = ScanCapturing
		if rest := afterLabel(clean, s.label); rest != "" {
			s.captured = append(s.captured, rest)
		}
		return s.state
	}

	if s.state != ScanCapturing {
		return s.state
	}

	if containsAny(clean, s.stops) {
		s.state = ScanDone
		return s.state
	}

	if clean != "" {
		s.captured = append(s.captured, clean)
	}
	return s.state
}

// Scan feeds every line of text until the scanner is done
func (s *AddressScanner) Scan(text string) {
	for _, line := range strings.Split(text, "\n") {
		if s.Feed(line) == ScanDone {
			return
		}
	}
}

// Captured returns the lines collected so far
func (s *AddressScanner) Captured() []string {
	out := make([]string, len(s.captured))
	copy(out, s.captured)
	return out
}

// Result splits the captured lines into the customer name (first line,
// honorific stripped) and the delivery address (remaining lines joined by a
// space). The address is empty unless at least two lines were captured.
func (s *AddressScanner) Result() (name, address string) {
	if len(s.captured) == 0 {
		return "", ""
	}
	name = stripHonorific(s.captured[0])
	if len(s.captured) > 1 {
		address = strings.Join(s.captured[1:], " ")
	}
	return name, address
}

// Reset returns the scanner to its initial state
func (s *AddressScanner) Reset() {
	s.state = ScanScanning
	s.captured = nil
}

// afterLabel is what follows the label on its own line, without the colon
func afterLabel(line, label string) string {
	rest := strings.Replace(line, label, "", 1)
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(rest), ":："))
}

func stripHonorific(name string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name), Honorific))
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
