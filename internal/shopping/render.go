package shopping

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Format identifies one of the supported export document formats.
type Format string

const (
	FormatText Format = "txt"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ErrUnsupportedFormat is returned for export format identifiers other than
// txt, csv and pdf.
var ErrUnsupportedFormat = fmt.Errorf("shopping: unsupported export format")

// ParseFormat validates a requested format identifier.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText:
		return FormatText, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Export is a rendered shopping list ready to be served as a download.
type Export struct {
	Content     []byte
	Filename    string
	ContentType string
}

// Render produces the shopping list document in the requested format.
func Render(format Format, list []AggregatedLine) (*Export, error) {
	switch format {
	case FormatText:
		return renderText(list)
	case FormatCSV:
		return renderCSV(list)
	case FormatPDF:
		return renderPDF(list)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func lineText(l AggregatedLine) string {
	return fmt.Sprintf("%s (%s) — %d", l.Name, l.Unit, l.Amount)
}

func renderText(list []AggregatedLine) (*Export, error) {
	rows := make([]string, 0, len(list))
	for _, l := range list {
		rows = append(rows, lineText(l))
	}
	return &Export{
		Content:     []byte(strings.Join(rows, "\n")),
		Filename:    "shopping_list.txt",
		ContentType: "text/plain",
	}, nil
}

func renderCSV(list []AggregatedLine) (*Export, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Ингредиент", "Количество", "Единица измерения"}); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, l := range list {
		if err := w.Write([]string{l.Name, strconv.Itoa(l.Amount), l.Unit}); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return &Export{
		Content:     buf.Bytes(),
		Filename:    "shopping_list.csv",
		ContentType: "text/csv",
	}, nil
}

func renderPDF(list []AggregatedLine) (*Export, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Core fonts carry no Cyrillic glyphs; the cp1251 translator remaps the
	// UTF-8 strings into the code page the font is declared with.
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1251")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 10, tr("Список покупок"), "", 1, "C", false, 0, "")

	for _, l := range list {
		pdf.CellFormat(0, 10, tr(lineText(l)), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	return &Export{
		Content:     buf.Bytes(),
		Filename:    "shopping_list.pdf",
		ContentType: "application/pdf",
	}, nil
}
