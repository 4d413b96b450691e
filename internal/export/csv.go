package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"
)

// CSV writes one header line and one record per row.
func CSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	lines := Lines(doc)
	if len(lines) == 0 {
		if err := enc.EncodeHeader(Line{}); err != nil {
			return fmt.Errorf("csv: header: %w", err)
		}
	}
	for _, l := range lines {
		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("csv: encode: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
