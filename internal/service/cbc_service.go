package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	apperrors "medtrack/internal/errors"
	"medtrack/internal/model"
	"medtrack/internal/storage"
)

// MaxCSVBytes bounds a single CBC upload.
const MaxCSVBytes = 1 << 20

// CBCImport is the outcome of one upload.
type CBCImport struct {
	Parameters []model.CBCParameter `json:"parameters"`
	Count      int                  `json:"count"`
	ArchiveKey string               `json:"archiveKey,omitempty"`
}

// CBCService imports CBC reference ranges from CSV uploads.
type CBCService interface {
	Import(ctx context.Context, userID uint, r io.Reader) (*CBCImport, error)
}

type cbcService struct {
	archive storage.Archive
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewCBCService creates a CBC import service. archive may be nil to skip archiving.
func NewCBCService(archive storage.Archive, log logrus.FieldLogger) CBCService {
	return &cbcService{archive: archive, log: log, now: time.Now}
}

// Import reads the upload, archives the raw bytes when an archive is configured and
// parses the rows. Archive failures are logged and never fail the import.
func (s *cbcService) Import(ctx context.Context, userID uint, r io.Reader) (*CBCImport, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxCSVBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidCSV, err)
	}
	if len(raw) > MaxCSVBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", apperrors.ErrInvalidCSV, MaxCSVBytes)
	}

	params, err := ParseCBCParameters(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	result := &CBCImport{Parameters: params, Count: len(params)}
	if s.archive != nil {
		key := fmt.Sprintf("cbc/%d/%s-%s.csv", userID, s.now().UTC().Format("20060102T150405Z"), uuid.NewString())
		if err := s.archive.Put(ctx, key, raw, "text/csv"); err != nil {
			s.log.WithError(err).WithField("user_id", userID).Warn("archive cbc upload")
		} else {
			result.ArchiveKey = key
		}
	}
	return result, nil
}

// ParseCBCParameters reads `name,unit,min,max` rows after a header row.
// Each line is parsed on its own, so broken quoting drops only that line.
// Rows without a name and blank lines are skipped; min and max are null when
// they are not numbers.
func ParseCBCParameters(r io.Reader) ([]model.CBCParameter, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxCSVBytes+1)

	params := []model.CBCParameter{}
	header := true
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if header {
			header = false
			continue
		}

		record, err := parseCSVLine(line)
		if err != nil {
			continue
		}
		name := strings.TrimSpace(field(record, 0))
		if name == "" {
			continue
		}
		params = append(params, model.CBCParameter{
			Name: name,
			Unit: strings.TrimSpace(field(record, 1)),
			Min:  parseBound(field(record, 2)),
			Max:  parseBound(field(record, 3)),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidCSV, err)
	}
	return params, nil
}

// parseCSVLine parses a single physical line. An unterminated quote is an error.
func parseCSVLine(line string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.Read()
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

func parseBound(s string) decimal.NullDecimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
