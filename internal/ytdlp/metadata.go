package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/ytget/yt-grabber/internal/model"
)

// rawInfo models only the fields of `--dump-json` output the interface shows. Each
// field is decoded on its own so a value of an unexpected type falls back to its
// default instead of failing the whole fetch.
type rawInfo struct {
	Title     json.RawMessage `json:"title"`
	Duration  json.RawMessage `json:"duration"`
	Uploader  json.RawMessage `json:"uploader"`
	ViewCount json.RawMessage `json:"view_count"`
	Thumbnail json.RawMessage `json:"thumbnail"`
}

// ParseMetadata decodes the first JSON object in data. Missing, null or mistyped
// strings become "Unknown", the duration becomes 0 and the view count stays absent
// unless it is a non-negative integer. Output that is not a JSON object is a ParseError.
func ParseMetadata(data []byte) (*model.Metadata, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, &ParseError{Err: errors.New("empty output")}
	}
	if data[0] != '{' {
		return nil, &ParseError{Err: errors.New("output is not a JSON object")}
	}

	var raw rawInfo
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return nil, &ParseError{Err: err}
	}

	meta := &model.Metadata{
		Title:     stringField(raw.Title, model.DefaultTitle),
		Uploader:  stringField(raw.Uploader, model.DefaultUploader),
		Thumbnail: stringField(raw.Thumbnail, ""),
	}

	var seconds float64
	if present(raw.Duration) {
		if err := json.Unmarshal(raw.Duration, &seconds); err != nil {
			seconds = 0
		}
	}
	meta.Duration = model.FormatDuration(seconds)

	if present(raw.ViewCount) {
		var n uint64
		if err := json.Unmarshal(raw.ViewCount, &n); err == nil {
			meta.ViewCount = &n
		}
	}

	return meta, nil
}

func present(field json.RawMessage) bool {
	return len(field) > 0 && !bytes.Equal(field, []byte("null"))
}

func stringField(field json.RawMessage, def string) string {
	if !present(field) {
		return def
	}
	var s string
	if err := json.Unmarshal(field, &s); err != nil {
		return def
	}
	return s
}

// FetchMetadata runs `--dump-json --no-playlist <url>`. stderr lines are emitted as
// log events while the tool runs.
func (c *Client) FetchMetadata(ctx context.Context, url string, emit Emitter) (*model.Metadata, error) {
	if emit == nil {
		emit = discard
	}

	args := []string{"--dump-json", "--no-playlist", url}
	emit(appLine("Running: " + c.CommandLine(args...)))

	out, err := c.output(ctx, args, emit)
	if err != nil {
		return nil, err
	}

	meta, err := ParseMetadata(out)
	if err != nil {
		return nil, err
	}
	emit(appLine("Successfully fetched video information"))
	return meta, nil
}
