package avatar

import (
	"fmt"
	"hash/crc32"
	"strconv"
	"strings"
)

// ResolvedHost is the effective avatar host for a render.
type ResolvedHost struct {
	// BaseURL is the host (and optional path) usernames are appended to.
	// For subdomain-isolated hosts it may contain ShardPlaceholder.
	BaseURL string
	// SubdomainIsolated reports whether the host is shard-capable.
	SubdomainIsolated bool
}

// WithShard returns the base URL with the shard placeholder substituted.
// Non-isolated hosts are returned unchanged.
func (h ResolvedHost) WithShard(shard int) string {
	if !h.SubdomainIsolated {
		return h.BaseURL
	}
	return strings.ReplaceAll(h.BaseURL, ShardPlaceholder, strconv.Itoa(shard))
}

// ResolveHost computes the effective host from the configured base URL.
func (t *Tag) ResolveHost() ResolvedHost {
	base := strings.TrimSpace(t.config.AvatarsURL)
	if base == "" {
		return ResolvedHost{BaseURL: DefaultHostTemplate, SubdomainIsolated: true}
	}
	return ResolvedHost{BaseURL: base, SubdomainIsolated: isSubdomainIsolated(base)}
}

// isSubdomainIsolated reports whether the first host label of base is
// "avatars" (optionally followed by the shard placeholder) with a domain after it.
func isSubdomainIsolated(base string) bool {
	_, rest, found := strings.Cut(base, SchemeSeparator)
	if !found {
		return false
	}
	host, _, _ := strings.Cut(rest, URLPathSeparator)
	if at := strings.LastIndex(host, "@"); at >= 0 {
		host = host[at+1:]
	}
	label, domain, found := strings.Cut(host, HostLabelSeparator)
	if !found || domain == "" {
		return false
	}
	return strings.EqualFold(label, SubdomainIsolationLabel) ||
		strings.EqualFold(label, SubdomainIsolationLabel+ShardPlaceholder)
}

// ServerNumber returns the shard in [0, ServerCount) for username at size.
// The mapping is deterministic so a username always lands on the same shard.
func (t *Tag) ServerNumber(username string, size int) int {
	if t.config.ShardStrategy == ShardStrategyCodePointSum {
		return ShardCodePointSum(username)
	}
	return ShardCRC32(BuildPath(username, size, 1))
}

// ShardCRC32 maps a request path to a shard using CRC-32 (IEEE).
func ShardCRC32(path string) int {
	return int(crc32.ChecksumIEEE([]byte(path)) % ServerCount)
}

// ShardCodePointSum maps a username to a shard by summing its code points.
func ShardCodePointSum(username string) int {
	sum := 0
	for _, r := range username {
		sum += int(r)
	}
	return sum % ServerCount
}

// BuildPath returns "{username}?v=3&s={size*scale}". The v parameter always precedes s.
func BuildPath(username string, size, scale int) string {
	return fmt.Sprintf(PathFormat, username, APIVersion, size*scale)
}

// BuildURL returns the avatar URL for username at size and scale.
func (t *Tag) BuildURL(username string, size, scale int) string {
	host := t.ResolveHost()
	return joinURL(host.WithShard(t.ServerNumber(username, size)), BuildPath(username, size, scale))
}

// Srcset returns the "{url} {scale}x" entries for every scale, joined by ", ".
// All entries use the same shard.
func (t *Tag) Srcset(username string, size int) string {
	return srcsetFor(t.ResolveHost().WithShard(t.ServerNumber(username, size)), username, size)
}

func srcsetFor(base, username string, size int) string {
	entries := make([]string, 0, len(srcsetScales))
	for _, scale := range srcsetScales {
		entries = append(entries,
			joinURL(base, BuildPath(username, size, scale))+" "+strconv.Itoa(scale)+ScaleDescriptorSuffix)
	}
	return strings.Join(entries, SrcsetSeparator)
}

// joinURL appends path to base, inserting a slash unless base already ends with one.
func joinURL(base, path string) string {
	if strings.HasSuffix(base, URLPathSeparator) {
		return base + path
	}
	return base + URLPathSeparator + path
}

// Classes returns the CSS classes for an avatar of the given size.
func Classes(size int) string {
	if size < SmallSizeThreshold {
		return ClassAvatarSmall
	}
	return ClassAvatar
}
