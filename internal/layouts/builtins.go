package layouts

// Built-in layouts keep a fresh site buildable before the author writes any
// templates. "default" renders a single post, "index" the reverse-
// chronological homepage, "category" one category listing.
var builtinLayouts = map[string]string{
	"default":  builtinDefault,
	"index":    builtinIndex,
	"category": builtinCategory,
}

const builtinHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{ .Title }}</title>
{{ if .Site.Description }}<meta name="description" content="{{ .Site.Description }}">{{ end }}
</head>`

const builtinLiveReload = `{{ if .Site.LiveReload }}<script>
(function () {
  var es = new EventSource("/livereload");
  var current = null;
  es.onmessage = function (ev) {
    var hash = JSON.parse(ev.data).hash;
    if (current === null) { current = hash; return; }
    if (hash !== current) { location.reload(); }
  };
})();
</script>{{ end }}`

const builtinDefault = builtinHead + `
<body>
<header><a href="/">{{ .Site.Title }}</a></header>
<main>
<article>
<h1>{{ .Post.Title }}</h1>
<p class="meta"><time>{{ .Post.Date }}</time>{{ range .Post.Categories }} <span class="category">{{ . }}</span>{{ end }}</p>
{{ .Post.Content }}
</article>
</main>
` + builtinLiveReload + `
</body>
</html>
`

const builtinIndex = builtinHead + `
<body>
<header><h1>{{ .Site.Title }}</h1></header>
<main>
<ul class="posts">
{{ range .Posts }}<li>
<time>{{ .Date }}</time> <a href="{{ .URL }}">{{ .Title }}</a>
{{ if .Excerpt }}<p>{{ .Excerpt }}</p>{{ end }}
</li>
{{ end }}</ul>
</main>
` + builtinLiveReload + `
</body>
</html>
`

const builtinCategory = builtinHead + `
<body>
<header><a href="/">{{ .Site.Title }}</a></header>
<main>
<h1>{{ .Category }}</h1>
<ul class="posts">
{{ range .Posts }}<li><time>{{ .Date }}</time> <a href="{{ .URL }}">{{ .Title }}</a></li>
{{ end }}</ul>
</main>
` + builtinLiveReload + `
</body>
</html>
`
