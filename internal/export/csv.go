// Package export writes vocabulary books in Anki's CSV import format.
package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/oukeidos/wordlens/internal/card"
	"github.com/oukeidos/wordlens/internal/vocab"
)

// WriteCSV writes one row per entry with no header: front, back and
// space-separated tags. Every field is quoted.
func WriteCSV(w io.Writer, entries []vocab.Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		c := card.Render(e)
		row := []string{c.Front, c.Back, strings.Join(c.Tags, " ")}
		for i, field := range row {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteByte('"')
			bw.WriteString(strings.ReplaceAll(field, `"`, `""`))
			bw.WriteByte('"')
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
