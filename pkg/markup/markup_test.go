package markup

import (
	"strings"
	"testing"

	"github.com/r3labs/diff/v3"
)

// snapshot is a comparable view of a tree.
type snapshot struct {
	Tag       string
	Namespace string
	Attrs     []Attr
	Text      string
	Children  []snapshot
}

func snap(nodes []Node) []snapshot {
	out := make([]snapshot, 0, len(nodes))
	for _, n := range nodes {
		switch v := n.(type) {
		case *Text:
			out = append(out, snapshot{Text: v.Data})
		case *Element:
			out = append(out, snapshot{Tag: v.Tag, Namespace: v.Namespace, Attrs: v.Attrs, Children: snap(v.Children)})
		}
	}
	return out
}

func mustParse(t *testing.T, s string) []Node {
	t.Helper()
	nodes, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", s, err)
	}
	return nodes
}

func TestParse_Structure(t *testing.T) {
	nodes := mustParse(t, `<div class="c" data-id="1"><p style="x" onclick="f()">Hi</p></div>`)
	if len(nodes) != 1 {
		t.Fatalf("expected 1 root, got %d", len(nodes))
	}
	div, ok := nodes[0].(*Element)
	if !ok || div.Tag != "div" {
		t.Fatalf("expected div root, got %#v", nodes[0])
	}
	if len(div.Attrs) != 2 || div.Attrs[0].Name != "class" || div.Attrs[1].Name != "data-id" {
		t.Errorf("attribute order not preserved: %+v", div.Attrs)
	}
	p, ok := div.Children[0].(*Element)
	if !ok || p.Tag != "p" {
		t.Fatalf("expected p child, got %#v", div.Children[0])
	}
	if got := TextContent(p); got != "Hi" {
		t.Errorf("TextContent = %q, want %q", got, "Hi")
	}
}

func TestParse_Leniency(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []snapshot
	}{
		{
			name:  "unclosed paragraphs are closed",
			input: `<p>one<p>two`,
			want: []snapshot{
				{Tag: "p", Children: []snapshot{{Text: "one"}}},
				{Tag: "p", Children: []snapshot{{Text: "two"}}},
			},
		},
		{
			name:  "names are lower-cased and bare values accepted",
			input: `<DIV CLASS=box>x</DIV>`,
			want: []snapshot{
				{Tag: "div", Attrs: []Attr{{Name: "class", Value: "box"}}, Children: []snapshot{{Text: "x"}}},
			},
		},
		{
			name:  "first duplicate attribute wins",
			input: `<a href="1" href="2">x</a>`,
			want: []snapshot{
				{Tag: "a", Attrs: []Attr{{Name: "href", Value: "1"}}, Children: []snapshot{{Text: "x"}}},
			},
		},
		{
			name:  "unknown tags are kept",
			input: `<bdt>x</bdt>`,
			want: []snapshot{
				{Tag: "bdt", Children: []snapshot{{Text: "x"}}},
			},
		},
		{
			name:  "comments are dropped",
			input: `<!-- note --><p>x</p>`,
			want: []snapshot{
				{Tag: "p", Children: []snapshot{{Text: "x"}}},
			},
		},
		{
			name:  "document wrappers are not inserted",
			input: `<html><body><p>x</p></body></html>`,
			want: []snapshot{
				{Tag: "p", Children: []snapshot{{Text: "x"}}},
			},
		},
		{
			name:  "plain text",
			input: `word , next .`,
			want:  []snapshot{{Text: "word , next ."}},
		},
		{
			name:  "entities are decoded",
			input: `<p>a &amp; b</p>`,
			want: []snapshot{
				{Tag: "p", Children: []snapshot{{Text: "a & b"}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := snap(mustParse(t, tt.input))
			changes, err := diff.Diff(tt.want, got)
			if err != nil {
				t.Fatalf("diff error: %v", err)
			}
			if len(changes) > 0 {
				t.Errorf("unexpected tree for %q: %+v", tt.input, changes)
			}
		})
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"attributes in order", `<a href="x" target="_blank">y</a>`, `<a href="x" target="_blank">y</a>`},
		{"void elements have no end tag", `<p>a<br/>b<img src="i.png"></p>`, `<p>a<br>b<img src="i.png"></p>`},
		{"text is escaped", `<p>a &lt; b &amp; c</p>`, `<p>a &lt; b &amp; c</p>`},
		{"attribute quotes are escaped", `<p title='say "hi"'>x</p>`, `<p title="say &quot;hi&quot;">x</p>`},
		{"nbsp is written as an entity", `<p>a&nbsp;b</p>`, `<p>a&nbsp;b</p>`},
		{"script text is verbatim", `<script>if (a < b) {}</script>`, `<script>if (a < b) {}</script>`},
		{"empty element", `<span></span>`, `<span></span>`},
		{"whitespace is kept", "<div>\n  <p>x</p>\n</div>", "<div>\n  <p>x</p>\n</div>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(mustParse(t, tt.input))
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_RoundTrip(t *testing.T) {
	inputs := []string{
		`<div class="c" data-id="1"><p style="x" onclick="f()">Hi</p></div>`,
		`<p>Contact us at <bdt>email@example.com</bdt> , or call us at ( 555 ) 123-4567 .</p>`,
		`<ul><li>one<li>two</ul><table><tr><td>cell</td></tr></table>`,
		"<pre>\n\nindented\n  code</pre>",
		`<textarea>` + "\n" + `x &amp; y</textarea>`,
		`<p title="a &quot;b&quot; &amp; c">x&nbsp;y</p>`,
		`<svg viewBox="0 0 10 10"><path d="M0 0"/></svg>`,
		`<style>p > a { color: red }</style><p>x</p>`,
		`text <b>bold</b> tail`,
		`<svg><style>&lt;i&gt;x</style></svg>`,
		`<svg><script>a &amp;&amp; b &lt;c&gt;</script></svg>`,
		`<math><mi>&lt;b&gt;</mi><style>&lt;u&gt;</style></math>`,
	}

	for _, input := range inputs {
		first := Render(mustParse(t, input))
		secondTree := mustParse(t, first)
		second := Render(secondTree)
		if first != second {
			t.Errorf("round trip not stable for %q:\n first: %q\nsecond: %q", input, first, second)
		}
		changes, err := diff.Diff(snap(mustParse(t, first)), snap(secondTree))
		if err != nil {
			t.Fatalf("diff error: %v", err)
		}
		if len(changes) > 0 {
			t.Errorf("trees differ after round trip of %q: %+v", input, changes)
		}
	}
}

func TestClone(t *testing.T) {
	nodes := mustParse(t, `<div id="a"><svg><p>x</p></svg></div>`)
	cloned := Clone(nodes)

	orig := nodes[0].(*Element)
	cp := cloned[0].(*Element)
	cp.Attrs[0].Value = "b"
	cp.Children[0].(*Element).Children[0].(*Element).Children[0].(*Text).Data = "changed"

	if v := orig.Attrs[0].Value; v != "a" {
		t.Errorf("clone shares attributes: id = %q", v)
	}
	if got := TextContent(orig); got != "x" {
		t.Errorf("clone shares children: text = %q", got)
	}
	if ns := cp.Children[0].(*Element).Namespace; ns != "svg" {
		t.Errorf("clone dropped namespace: %q", ns)
	}
}

func TestElement_RawText(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{`<style>x</style>`, true},
		{`<script>x</script>`, true},
		{`<p>x</p>`, false},
		{`<svg><style>x</style></svg>`, false},
		{`<math><script>x</script></math>`, false},
		{`<svg><foreignObject><style>x</style></foreignObject></svg>`, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			// The innermost element holds the text.
			var inner *Element
			Elements(mustParse(t, tt.input), func(el *Element) { inner = el })
			if got := inner.RawText(); got != tt.want {
				t.Errorf("RawText() = %v, want %v (tag %q, namespace %q)", got, tt.want, inner.Tag, inner.Namespace)
			}
		})
	}
}

func TestRender_ForeignText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`<svg><style>&lt;i&gt;x</style></svg>`, `<svg><style>&lt;i&gt;x</style></svg>`},
		{`<style>a > b</style>`, `<style>a > b</style>`},
		{`<svg><foreignObject><style>a > b</style></foreignObject></svg>`, `<svg><foreignobject><style>a > b</style></foreignobject></svg>`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Render(mustParse(t, tt.input)); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWalk_PreOrder(t *testing.T) {
	nodes := mustParse(t, `<a><b><c></c></b><d></d></a><e></e>`)
	var tags []string
	Elements(nodes, func(el *Element) { tags = append(tags, el.Tag) })
	if got := strings.Join(tags, ","); got != "a,b,c,d,e" {
		t.Errorf("pre-order = %s, want a,b,c,d,e", got)
	}
	if n := CountElements(nodes); n != 5 {
		t.Errorf("CountElements = %d, want 5", n)
	}
}

func TestDeepNesting(t *testing.T) {
	const depth = 2000
	input := strings.Repeat("<span>", depth) + "x" + strings.Repeat("</span>", depth)
	nodes := mustParse(t, input)
	if got := CountElements(nodes); got != depth {
		t.Fatalf("CountElements = %d, want %d", got, depth)
	}
	if got := Render(Clone(nodes)); got != input {
		t.Error("deeply nested fragment did not render back to its input")
	}
}
