package ethereum

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/feral-file/ff-card-indexer/internal/domain"
)

const jsonBase64Prefix = "data:application/json;base64,"

// ErrUnsupportedTokenURI is returned for token URIs that are not inline base64 JSON
var ErrUnsupportedTokenURI = errors.New("unsupported token uri")

type tokenMetadata struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	ImageURI    string          `json:"imageUri"`
	Nickname    string          `json:"nickname"`
	Role        string          `json:"role"`
	Bio         string          `json:"bio"`
	Socials     json.RawMessage `json:"socials"`
	Attributes  []struct {
		TraitType string      `json:"trait_type"`
		Value     interface{} `json:"value"`
	} `json:"attributes"`
}

// DecodeTokenURI decodes a data:application/json;base64 token URI into card metadata.
// Top-level fields win over attributes; socials may be a list of {key,value} or an object.
func DecodeTokenURI(uri string) (*domain.CardMetadata, error) {
	uri = strings.TrimSpace(uri)
	if !strings.HasPrefix(uri, jsonBase64Prefix) {
		return nil, fmt.Errorf("%w: %.40q", ErrUnsupportedTokenURI, uri)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, jsonBase64Prefix))
	if err != nil {
		// some contracts emit unpadded base64
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimPrefix(uri, jsonBase64Prefix))
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 payload: %w", err)
		}
	}

	var meta tokenMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	result := &domain.CardMetadata{
		CardFields: domain.CardFields{
			ImageURI: firstNonEmpty(meta.ImageURI, meta.Image),
			Nickname: firstNonEmpty(meta.Nickname, meta.Name),
			Role:     meta.Role,
			Bio:      firstNonEmpty(meta.Bio, meta.Description),
		},
	}

	for _, attr := range meta.Attributes {
		value, ok := attr.Value.(string)
		if !ok {
			continue
		}
		switch strings.ToLower(attr.TraitType) {
		case "nickname":
			result.Nickname = firstNonEmpty(result.Nickname, value)
		case "role":
			result.Role = firstNonEmpty(result.Role, value)
		case "bio":
			result.Bio = firstNonEmpty(result.Bio, value)
		}
	}

	socials, err := decodeSocials(meta.Socials)
	if err != nil {
		return nil, err
	}
	result.Socials = socials

	return result, nil
}

func decodeSocials(raw json.RawMessage) ([]domain.SocialEntry, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []domain.SocialEntry{}, nil
	}

	var entries []domain.SocialEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		var byKey map[string]string
		if err := json.Unmarshal(raw, &byKey); err != nil {
			return nil, fmt.Errorf("failed to unmarshal socials: %w", err)
		}
		entries = make([]domain.SocialEntry, 0, len(byKey))
		for k, v := range byKey {
			entries = append(entries, domain.SocialEntry{Key: k, Value: v})
		}
	}

	filtered := make([]domain.SocialEntry, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Key) == "" || strings.TrimSpace(e.Value) == "" {
			continue
		}
		filtered = append(filtered, e)
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Key < filtered[j].Key })
	return filtered, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
