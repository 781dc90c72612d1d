package resolve

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrBadAssets is returned when uploaded assets list cannot be decoded.
var ErrBadAssets = errors.New("bad uploaded assets")

// UploadedAsset is a record produced by upload collaborator. Only fuzzy
// similarity of Slug and Title ties it to media descriptors.
type UploadedAsset struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	SourceURL string `json:"source_url"`
}

// UnmarshalJSON accepts numeric or string id and title given either as plain
// string or as media library object {"rendered": ..., "raw": ...}.
func (a *UploadedAsset) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        json.RawMessage `json:"id"`
		Slug      string          `json:"slug"`
		Title     json.RawMessage `json:"title"`
		SourceURL string          `json:"source_url"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}
	title, err := decodeTitle(raw.Title)
	if err != nil {
		return err
	}
	*a = UploadedAsset{ID: id, Slug: raw.Slug, Title: title, SourceURL: raw.SourceURL}
	return nil
}

func isNull(data json.RawMessage) bool {
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}

func decodeID(data json.RawMessage) (string, error) {
	if isNull(data) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", fmt.Errorf("asset id must be string or number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}

func decodeTitle(data json.RawMessage) (string, error) {
	if isNull(data) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s, nil
	}
	var obj struct {
		Rendered string `json:"rendered"`
		Raw      string `json:"raw"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", fmt.Errorf("asset title must be string or object: %w", err)
	}
	if obj.Rendered != "" {
		return obj.Rendered, nil
	}
	return obj.Raw, nil
}

// ParseAssets decodes JSON array of uploaded assets. Workflow engines often
// wrap every item into {"json": {...}}, such envelopes are unwrapped.
func ParseAssets(data []byte) ([]UploadedAsset, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadAssets, err)
	}

	assets := make([]UploadedAsset, 0, len(items))
	for i, item := range items {
		var envelope struct {
			JSON json.RawMessage `json:"json"`
		}
		if err := json.Unmarshal(item, &envelope); err == nil && !isNull(envelope.JSON) {
			item = envelope.JSON
		}
		var a UploadedAsset
		if err := json.Unmarshal(item, &a); err != nil {
			return nil, fmt.Errorf("%w: item %d: %w", ErrBadAssets, i, err)
		}
		assets = append(assets, a)
	}
	return assets, nil
}
