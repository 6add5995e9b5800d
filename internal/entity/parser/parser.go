// Package parser converts uploaded key/value payloads into entity records.
//
// The payload format is line-oriented: one `key = value` pair per line, with
// optional double quotes around either side. Quotes and surrounding whitespace
// are stripped; everything after the first '=' belongs to the value, so values
// may themselves contain '='.
package parser

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/allisson/tablegate/internal/entity/domain"
	apperrors "github.com/allisson/tablegate/internal/errors"
)

// rowKeyFallbacks are consulted in order when a payload has no explicit
// RowKey field. The first present field wins.
var rowKeyFallbacks = []string{"prefix", "id"}

// Parser turns raw payload text into addressable records.
type Parser struct {
	defaultPartitionKey string
}

// New creates a Parser that assigns defaultPartitionKey to payloads carrying
// no PartitionKey of their own.
func New(defaultPartitionKey string) *Parser {
	return &Parser{defaultPartitionKey: defaultPartitionKey}
}

// Parse converts payload text into a record.
//
// Rules:
//   - Blank lines are skipped; CRLF line endings are tolerated.
//   - Each remaining line must contain '='; the line splits at the first one.
//   - Keys and values are trimmed of whitespace, then of one pair of
//     surrounding double quotes.
//   - A duplicate key overwrites the earlier value.
//   - A payload without PartitionKey gets the configured default.
//   - A payload without RowKey falls back to its "prefix" field, then "id";
//     fallbacks are copied, not moved, so the source field remains visible.
//
// Returns ErrMalformedPayload for unsplittable lines or empty keys, and
// ErrMissingRowKey when the fallback chain is exhausted.
func (p *Parser) Parse(payload string) (domain.Record, error) {
	record := domain.Record{}

	scanner := bufio.NewScanner(strings.NewReader(payload))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, apperrors.Wrap(domain.ErrMalformedPayload,
				fmt.Sprintf("line %d has no '='", lineNo))
		}

		key = unquote(strings.TrimSpace(key))
		value = unquote(strings.TrimSpace(value))
		if key == "" {
			return nil, apperrors.Wrap(domain.ErrMalformedPayload,
				fmt.Sprintf("line %d has an empty key", lineNo))
		}

		record[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(domain.ErrMalformedPayload, err.Error())
	}

	if record.PartitionKey() == "" {
		record[domain.PartitionKeyField] = p.defaultPartitionKey
	}

	if record.RowKey() == "" {
		if err := p.assignRowKey(record); err != nil {
			return nil, err
		}
	}

	return record, nil
}

// assignRowKey walks the fallback chain and copies the first present field
// into RowKey.
func (p *Parser) assignRowKey(record domain.Record) error {
	for _, field := range rowKeyFallbacks {
		if v := record[field]; v != "" {
			record[domain.RowKeyField] = v
			return nil
		}
	}
	return domain.ErrMissingRowKey
}

// unquote strips one pair of surrounding double quotes, if present.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
