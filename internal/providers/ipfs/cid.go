package ipfs

import (
	"net/url"
	"strings"
)

// ExtractCID returns the content id referenced by an ipfs://, gateway or bare-cid URI.
// It returns "" when uri does not reference IPFS content.
func ExtractCID(uri string) string {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return ""
	}

	if rest, ok := strings.CutPrefix(uri, "ipfs://"); ok {
		rest = strings.TrimPrefix(rest, "ipfs/")
		return firstSegment(rest)
	}

	if u, err := url.Parse(uri); err == nil && u.Scheme != "" {
		if _, after, found := strings.Cut(u.Path, "/ipfs/"); found {
			return firstSegment(after)
		}
		// subdomain gateways: https://<cid>.ipfs.<host>/
		if cid, _, found := strings.Cut(u.Host, ".ipfs."); found && isLikelyCID(cid) {
			return cid
		}
		return ""
	}

	if isLikelyCID(uri) {
		return uri
	}
	return ""
}

func firstSegment(s string) string {
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		return s[:i]
	}
	return s
}

// isLikelyCID accepts CIDv0 (Qm..., 46 chars) and base32 CIDv1 (b...)
func isLikelyCID(s string) bool {
	switch {
	case strings.HasPrefix(s, "Qm") && len(s) == 46:
		return isAlphanumeric(s)
	case strings.HasPrefix(s, "b") && len(s) > 50:
		return isAlphanumeric(s)
	default:
		return false
	}
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
