package site

// pageTemplate is the html/template for every exported page.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} · {{.SiteTitle}}</title>
  <link rel="stylesheet" href="{{.BasePath}}style.css">
  <link rel="stylesheet" id="chroma-theme" href="{{.BasePath}}chroma-light.css" data-light="{{.BasePath}}chroma-light.css" data-dark="{{.BasePath}}chroma-dark.css">
  <script>if (localStorage.getItem('learnhub.darkMode') === 'true') document.documentElement.classList.add('dark');</script>
</head>
<body data-base="{{.BasePath}}">
  <nav class="sidebar">
    <div class="sidebar-header">
      <h2 class="site-title"><a href="{{.BasePath}}index.html">{{.SiteTitle}}</a></h2>
      <button class="theme-toggle" id="theme-toggle" aria-label="Toggle dark mode">◐</button>
      <input type="search" id="search-input" placeholder="Search notes..." autocomplete="off">
      <ul class="search-results" id="search-results"></ul>
    </div>
    <div class="sidebar-tree">
      {{.TreeHTML}}
    </div>
  </nav>
  <main class="content">
    {{if .Subject}}<div class="breadcrumb">{{.Subject}} / {{.Folder}}</div>{{end}}
    {{if .Fallback}}<div class="notice">This document could not be formatted and is shown as plain text.</div>{{end}}
    <article class="page-content{{if .Missing}} missing{{end}}">
      {{.Content}}
    </article>
    {{if or .Prev .Next}}
    <div class="pager">
      {{with .Prev}}<a class="prev" href="{{.Href}}">← {{.Title}}</a>{{else}}<span></span>{{end}}
      {{with .Next}}<a class="next" href="{{.Href}}">{{.Title}} →</a>{{end}}
    </div>
    {{end}}
  </main>
  {{if .TOC}}
  <aside class="toc">
    <h4>On this page</h4>
    <ul>
      {{range .TOC}}<li class="toc-h{{.Level}}"><a href="#{{.Anchor}}">{{.Text}}</a></li>
      {{end}}
    </ul>
  </aside>
  {{end}}
  <script src="{{.BasePath}}script.js"></script>
</body>
</html>`

// cssContent is the layout stylesheet. Code colors come from the chroma
// stylesheets written next to it.
const cssContent = `:root {
  --bg: #ffffff;
  --fg: #1f2328;
  --muted: #59636e;
  --panel: #f6f8fa;
  --border: #d1d9e0;
  --accent: #0969da;
  --err: #cf222e;
}
html.dark {
  --bg: #0d1117;
  --fg: #e6edf3;
  --muted: #9198a1;
  --panel: #151b23;
  --border: #3d444d;
  --accent: #4493f8;
  --err: #f85149;
}
* { box-sizing: border-box; }
body {
  margin: 0;
  display: grid;
  grid-template-columns: 280px minmax(0, 1fr) 220px;
  min-height: 100vh;
  font: 15px/1.6 -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif;
  background: var(--bg);
  color: var(--fg);
}
a { color: var(--accent); }
.sidebar {
  position: sticky;
  top: 0;
  height: 100vh;
  overflow-y: auto;
  padding: 16px;
  background: var(--panel);
  border-right: 1px solid var(--border);
}
.sidebar-header { position: relative; margin-bottom: 12px; }
.site-title { font-size: 18px; margin: 0 0 10px; }
.site-title a { color: var(--fg); text-decoration: none; }
.theme-toggle {
  position: absolute;
  top: 0;
  right: 0;
  border: 1px solid var(--border);
  border-radius: 6px;
  background: var(--bg);
  color: var(--fg);
  cursor: pointer;
}
#search-input {
  width: 100%;
  padding: 6px 8px;
  border: 1px solid var(--border);
  border-radius: 6px;
  background: var(--bg);
  color: var(--fg);
}
.search-results { list-style: none; padding: 0; margin: 8px 0; }
.search-results li { padding: 4px 0; border-bottom: 1px solid var(--border); }
.search-results small { display: block; color: var(--muted); }
.sidebar-tree ul { list-style: none; margin: 0; padding-left: 12px; }
.sidebar-tree > ul { padding-left: 0; }
.sidebar-tree li.dir > ul { display: none; }
.sidebar-tree li.dir.expanded > ul { display: block; }
.dir-toggle { cursor: pointer; font-weight: 600; display: block; padding: 2px 0; }
.sidebar-tree li.file a { display: block; padding: 2px 6px; border-radius: 4px; color: var(--fg); text-decoration: none; }
.sidebar-tree li.file a.active { background: var(--accent); color: #fff; }
.content { padding: 24px 48px; max-width: 960px; }
.breadcrumb { color: var(--muted); font-size: 13px; margin-bottom: 8px; }
.notice { border: 1px solid var(--border); border-radius: 6px; padding: 8px 12px; color: var(--muted); }
.page-content.missing { color: var(--err); }
.page-content pre { padding: 12px; overflow-x: auto; border-radius: 6px; background: var(--panel); }
.page-content table { border-collapse: collapse; }
.page-content td, .page-content th { border: 1px solid var(--border); padding: 4px 8px; }
.pager { display: flex; justify-content: space-between; margin: 32px 0; }
.toc {
  position: sticky;
  top: 0;
  height: 100vh;
  overflow-y: auto;
  padding: 16px;
  font-size: 13px;
  border-left: 1px solid var(--border);
}
.toc ul { list-style: none; padding: 0; }
.toc a { color: var(--muted); text-decoration: none; }
.toc-h2 { padding-left: 10px; }
.toc-h3 { padding-left: 20px; }
.toc-h4, .toc-h5, .toc-h6 { padding-left: 30px; }
@media (max-width: 900px) {
  body { grid-template-columns: 1fr; }
  .sidebar, .toc { position: static; height: auto; }
}
`

// jsContent drives the theme toggle, the sidebar tree and client-side search.
const jsContent = `(function() {
  var root = document.documentElement;
  var base = document.body.getAttribute('data-base') || '';
  var chroma = document.getElementById('chroma-theme');

  function applyTheme() {
    var dark = root.classList.contains('dark');
    chroma.href = chroma.getAttribute(dark ? 'data-dark' : 'data-light');
  }
  applyTheme();

  document.getElementById('theme-toggle').addEventListener('click', function() {
    root.classList.toggle('dark');
    try { localStorage.setItem('learnhub.darkMode', String(root.classList.contains('dark'))); } catch (e) {}
    applyTheme();
  });

  document.querySelectorAll('.dir-toggle').forEach(function(el) {
    el.addEventListener('click', function() { el.parentElement.classList.toggle('expanded'); });
  });

  var index = null;
  var input = document.getElementById('search-input');
  var results = document.getElementById('search-results');

  function esc(s) {
    return String(s).replace(/[&<>"']/g, function(c) {
      return {'&': '&amp;', '<': '&lt;', '>': '&gt;', '"': '&quot;', "'": '&#39;'}[c];
    });
  }

  function search(q) {
    q = q.trim().toLowerCase();
    if (!q) { results.innerHTML = ''; return; }
    var hits = index.filter(function(e) {
      return e.title.toLowerCase().indexOf(q) >= 0 ||
        e.subject.toLowerCase().indexOf(q) >= 0 ||
        e.content.toLowerCase().indexOf(q) >= 0;
    }).slice(0, 20);
    results.innerHTML = hits.length ? hits.map(function(e) {
      return '<li><a href="' + esc(base + e.path) + '">' + esc(e.title) + '</a><small>' +
        esc(e.subject + ' / ' + e.folder) + '</small></li>';
    }).join('') : '<li><small>No matches</small></li>';
  }

  input.addEventListener('input', function() {
    if (index) { search(input.value); return; }
    fetch(base + 'search-index.json')
      .then(function(r) { return r.json(); })
      .then(function(data) { index = data; search(input.value); })
      .catch(function() {
        results.innerHTML = '<li><small>Search needs the site to be served over http.</small></li>';
      });
  });
})();
`
