package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"sheetcal/core/storage"
	"sheetcal/core/utils"

	"github.com/minio/minio-go/v7"
)

// Field is one loosely typed spreadsheet cell. Present distinguishes a cell
// that exists from one that is absent or blank, so callers never have to
// treat "" and "missing" as the same thing.
type Field struct {
	Value   any
	Present bool
}

// String coerces the field to a string, returning "" when absent.
func (f Field) String() string {
	if !f.Present {
		return ""
	}
	return utils.ToString(f.Value)
}

// Bool coerces the field to a bool, returning false when absent.
func (f Field) Bool() bool {
	if !f.Present {
		return false
	}
	return utils.ToBool(f.Value)
}

// Row is one spreadsheet row with the columns the sync engine understands.
// Unknown columns are ignored by the readers.
type Row struct {
	Title       Field
	Start       Field
	End         Field
	Description Field
	Location    Field
	AllDay      Field
}

// Reader opens a spreadsheet location and yields its rows in source order.
type Reader struct {
	objects storage.Client
	bucket  string
}

// NewReader creates a reader. The storage client may be nil if no target
// uses s3:// locations.
func NewReader(objects storage.Client, bucket string) *Reader {
	return &Reader{objects: objects, bucket: bucket}
}

// Open reads all rows from a local file or an s3://bucket/key object.
// The format is chosen by file extension (.csv or .xlsx).
func (r *Reader) Open(ctx context.Context, location string) ([]Row, error) {
	body, err := r.open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	switch strings.ToLower(path.Ext(objectKey(location))) {
	case ".csv":
		return parseCSV(body)
	case ".xlsx":
		return parseXLSX(body)
	default:
		return nil, fmt.Errorf("unsupported spreadsheet format for %s (want .csv or .xlsx)", location)
	}
}

// ModTime reports when the spreadsheet behind location last changed,
// used to decide whether a target looks stale.
func (r *Reader) ModTime(ctx context.Context, location string) (time.Time, error) {
	if bucket, key, ok := splitObjectLocation(location); ok {
		if r.objects == nil {
			return time.Time{}, fmt.Errorf("object storage not configured for %s", location)
		}
		info, err := r.objects.StatObject(ctx, r.resolveBucket(bucket), key, minio.StatObjectOptions{})
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to stat object %s: %w", location, err)
		}
		return info.LastModified, nil
	}

	info, err := os.Stat(location)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (r *Reader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if bucket, key, ok := splitObjectLocation(location); ok {
		if r.objects == nil {
			return nil, fmt.Errorf("object storage not configured for %s", location)
		}
		body, err := r.objects.GetObject(ctx, r.resolveBucket(bucket), key, minio.GetObjectOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch object %s: %w", location, err)
		}
		return body, nil
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *Reader) resolveBucket(bucket string) string {
	if bucket != "" {
		return bucket
	}
	return r.bucket
}

// splitObjectLocation parses s3://bucket/key and s3://key forms; the latter
// falls back to the configured default bucket.
func splitObjectLocation(location string) (bucket, key string, ok bool) {
	const scheme = "s3://"
	if !strings.HasPrefix(location, scheme) {
		return "", "", false
	}
	rest := strings.TrimPrefix(location, scheme)
	if i := strings.IndexByte(rest, '/'); i > 0 {
		return rest[:i], rest[i+1:], true
	}
	return "", rest, true
}

func objectKey(location string) string {
	if _, key, ok := splitObjectLocation(location); ok {
		return key
	}
	return location
}

// rowFromCells builds a Row from header-indexed string cells. Blank cells are
// treated as absent, matching how spreadsheet libraries surface empty cells.
func rowFromCells(columns map[string]int, cells []string) Row {
	pick := func(name string) Field {
		idx, ok := columns[name]
		if !ok || idx >= len(cells) {
			return Field{}
		}
		v := strings.TrimSpace(cells[idx])
		if v == "" {
			return Field{}
		}
		return Field{Value: v, Present: true}
	}

	return Row{
		Title:       pick("title"),
		Start:       pick("start"),
		End:         pick("end"),
		Description: pick("description"),
		Location:    pick("location"),
		AllDay:      pick("allday"),
	}
}

// columnIndex maps the known column names to their positions in the header
// row. Matching ignores case, spaces and underscores ("All Day" == "AllDay").
func columnIndex(header []string) map[string]int {
	normalize := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		s = strings.ReplaceAll(s, " ", "")
		return strings.ReplaceAll(s, "_", "")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		switch n := normalize(name); n {
		case "title", "start", "end", "description", "location", "allday":
			if _, dup := columns[n]; !dup {
				columns[n] = i
			}
		}
	}
	return columns
}
