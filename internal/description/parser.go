// Package description splits an outlet listing description such as
// "HP ProBook 640 G4 W10P-64 i3 8130U 2.2GHz 500GB SATA 8GB(1x8GB) 14.0HD ..."
// into its model, OS, CPU, storage, memory, screen and misc parts.
//
// The description has no delimiters. Fields are recognised by the shape of
// each token and by their position relative to the tokens before them.
package description

import (
	"errors"
	"fmt"
	"strings"
)

// Field names a mandatory part of a description.
type Field string

const (
	FieldOS       Field = "OS"
	FieldCPUSpeed Field = "CPUSpeed"
	FieldStorage  Field = "Storage"
	FieldMemory   Field = "Memory"
)

// ErrMissingField is matched by every *MissingFieldError.
var ErrMissingField = errors.New("missing field")

// MissingFieldError is returned when a description does not have the expected shape.
type MissingFieldError struct {
	Field       Field
	Description string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing %s in description %q", e.Field, e.Description)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// Fields holds the parts of a successfully parsed description.
type Fields struct {
	Model    string
	OS       string
	CPUName  string
	CPUSpeed string
	Storage  []string
	Memory   string
	Screen   string
	Misc     string
}

const (
	osPrefix   = "W10"
	speedUnit  = "GHZ"
	memoryUnit = "GB"
)

var (
	storageSizeUnits   = []string{"GB", "TB"}
	storageDescriptors = map[string]bool{"NVME": true, "SATA": true, "SSD": true}

	// Matched as substrings of the uppercased token, so "FHD" and "14.0UHD" both hit "HD".
	screenResolutions = []string{"HD", "FHD", "QHD", "UHD", "WXGA", "3K2K"}
	// Matched as prefixes of the raw token ("14.0HD", "15.6").
	screenSizes = []string{"11", "12", "13", "14", "15", "17"}
)

// Parse classifies the whitespace separated tokens of desc from left to right.
// Each stage consumes a contiguous run of tokens and never gives tokens back.
func Parse(desc string) (Fields, error) {
	tokens := strings.Fields(desc)
	var f Fields

	osIdx := -1
	for i, tok := range tokens {
		if strings.HasPrefix(strings.ToUpper(tok), osPrefix) {
			osIdx = i
			break
		}
	}
	if osIdx < 0 {
		return Fields{}, &MissingFieldError{Field: FieldOS, Description: desc}
	}
	f.Model = strings.Join(tokens[:osIdx], " ")
	f.OS = tokens[osIdx]

	speedIdx := -1
	for i := osIdx + 1; i < len(tokens); i++ {
		if strings.HasSuffix(strings.ToUpper(tokens[i]), speedUnit) {
			speedIdx = i
			break
		}
	}
	if speedIdx < 0 {
		return Fields{}, &MissingFieldError{Field: FieldCPUSpeed, Description: desc}
	}
	f.CPUName = strings.Join(tokens[osIdx+1:speedIdx], " ")
	f.CPUSpeed = tokens[speedIdx]

	cursor := speedIdx + 1
	// Some rows repeat the unit as a separate token: "2.2GHz GHz".
	if cursor < len(tokens) && strings.ToUpper(tokens[cursor]) == speedUnit {
		cursor++
	}

	f.Storage, cursor = parseStorage(tokens, cursor)
	if len(f.Storage) == 0 {
		return Fields{}, &MissingFieldError{Field: FieldStorage, Description: desc}
	}

	if cursor >= len(tokens) || !strings.Contains(strings.ToUpper(tokens[cursor]), memoryUnit) {
		return Fields{}, &MissingFieldError{Field: FieldMemory, Description: desc}
	}
	f.Memory = strings.ReplaceAll(tokens[cursor], "(", " (")
	cursor++

	var screen, misc []string
	for _, tok := range tokens[cursor:] {
		if isScreenToken(tok) {
			screen = append(screen, tok)
		} else {
			misc = append(misc, tok)
		}
	}
	f.Screen = strings.TrimSpace(strings.Join(screen, " "))
	f.Misc = strings.TrimSpace(strings.Join(misc, " "))

	return f, nil
}

// parseStorage reads "<size> <descriptor>..." devices starting at cursor and
// returns them with the cursor just past the last device. A size token that
// is not followed by a descriptor is left in place for the memory stage.
func parseStorage(tokens []string, cursor int) ([]string, int) {
	var devices []string
	for cursor < len(tokens) {
		size := tokens[cursor]
		if !hasAnySuffix(strings.ToUpper(size), storageSizeUnits) {
			break
		}

		next := cursor + 1
		for next < len(tokens) && storageDescriptors[strings.ToUpper(tokens[next])] {
			next++
		}
		if next == cursor+1 {
			break
		}

		devices = append(devices, strings.Join(tokens[cursor:next], " "))
		cursor = next
	}
	return devices, cursor
}

func isScreenToken(tok string) bool {
	upper := strings.ToUpper(tok)
	for _, res := range screenResolutions {
		if strings.Contains(upper, res) {
			return true
		}
	}
	for _, size := range screenSizes {
		if strings.HasPrefix(tok, size) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// StorageString joins the storage devices the way they are rendered in exports.
func (f Fields) StorageString() string {
	return strings.Join(f.Storage, " ")
}
