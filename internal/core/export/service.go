package export

import (
	"bytes"
	"fmt"
	"io"
)

// Service provides high-level export functionality
type Service struct {
	exporters map[ExportFormat]Exporter
}

// NewService creates a new export service
func NewService() *Service {
	return &Service{
		exporters: map[ExportFormat]Exporter{
			FormatPDF:   NewPDFExporter(),
			FormatExcel: NewExcelExporter(),
		},
	}
}

// File is a rendered export
type File struct {
	Content     []byte
	ContentType string
	Extension   string
}

// Export renders data in the given format
func (s *Service) Export(data *ExportData, format ExportFormat) (*File, error) {
	exporter, err := s.exporter(format)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := exporter.Export(data, &buf); err != nil {
		return nil, fmt.Errorf("%s export failed: %w", format, err)
	}

	return &File{
		Content:     buf.Bytes(),
		ContentType: exporter.GetContentType(),
		Extension:   exporter.GetFileExtension(),
	}, nil
}

// ExportToWriter exports data to a writer
func (s *Service) ExportToWriter(data *ExportData, format ExportFormat, writer io.Writer) error {
	exporter, err := s.exporter(format)
	if err != nil {
		return err
	}
	return exporter.Export(data, writer)
}

func (s *Service) exporter(format ExportFormat) (Exporter, error) {
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
	return exporter, nil
}
