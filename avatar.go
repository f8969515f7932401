// Package avatar renders GitHub-style avatar tags into responsive <img> markup.
//
// The tag uses Liquid syntax:
//
//	{% avatar hubot %}
//	{% avatar @hubot size=80 %}
//	{% avatar user=page.author size=48 %}
//	{% avatar {{ site.owner }} %}
//
// # Basic Usage
//
// Render a single tag invocation directly:
//
//	tag := avatar.MustNewTag(avatar.DefaultConfig())
//	html, err := tag.Render(ctx, nil, "hubot")
//	// <img class="avatar avatar-small" src="https://avatars3.githubusercontent.com/hubot?v=3&amp;s=40" ... />
//
// Or render whole documents through the Engine, which registers the avatar
// tag as a builtin:
//
//	engine := avatar.MustNew(avatar.WithAvatarsURL(os.Getenv(avatar.EnvAvatarsURL)))
//	out, err := engine.Execute(ctx, "By {% avatar user=author %}", map[string]any{
//	    "author": "hubot",
//	})
//
// # Hosts
//
// Without configuration, avatars are served from the four-shard
// avatars{0-3}.githubusercontent.com CDN; the shard is chosen from a stable
// hash of the request path. An operator can point the tag at another host:
//
//	http(s)://avatars.example.com        shard-capable host, used as given
//	https://avatars{N}.example.com       shard-capable host, {N} replaced by the shard
//	http://github.example.com/avatars/   fixed host, username appended under the path
//
// # Pages and Storage
//
// ParsePage reads Jekyll-style documents with YAML front matter, exposed to
// templates as page.*. Markdown pages are converted to HTML after tags are
// expanded. Page sources can be kept in a PageStorage (memory or PostgreSQL).
package avatar

// Version is the library version.
const Version = "1.2.0"
