package markup

import (
	"strings"

	"github.com/beevik/etree"
)

// Classes returns the class list of el in declaration order.
func Classes(el *etree.Element) []string {
	raw := el.SelectAttrValue("class", "")
	if raw == "" {
		return nil
	}
	return strings.Fields(raw)
}

// HasClass reports whether el carries the given class.
func HasClass(el *etree.Element, class string) bool {
	for _, c := range Classes(el) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends class to el's class list. Adding a class that is
// already present is a no-op.
func AddClass(el *etree.Element, class string) {
	if class == "" || HasClass(el, class) {
		return
	}
	classes := append(Classes(el), class)
	el.CreateAttr("class", strings.Join(classes, " "))
}

// RemoveClass removes class from el's class list. Removing a class that
// is not present is a no-op. The class attribute is dropped entirely
// when the list becomes empty.
func RemoveClass(el *etree.Element, class string) {
	classes := Classes(el)
	kept := classes[:0]
	for _, c := range classes {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(classes) {
		return
	}
	if len(kept) == 0 {
		el.RemoveAttr("class")
		return
	}
	el.CreateAttr("class", strings.Join(kept, " "))
}

// SwapClass replaces old with new on el. When old is absent the new
// class is still added; when new is already present nothing changes.
func SwapClass(el *etree.Element, old, new string) {
	if old == new && HasClass(el, new) {
		return
	}
	RemoveClass(el, old)
	AddClass(el, new)
}

// RemoveChildren detaches every child token of el.
func RemoveChildren(el *etree.Element) {
	for len(el.Child) > 0 {
		el.RemoveChild(el.Child[0])
	}
}

// SetText replaces el's entire content with a single text token.
func SetText(el *etree.Element, text string) {
	RemoveChildren(el)
	el.CreateText(text)
}

// AppendSpan appends a <span class="..."> child holding text and
// returns it. An empty class produces a bare span.
func AppendSpan(parent *etree.Element, class, text string) *etree.Element {
	span := parent.CreateElement("span")
	if class != "" {
		span.CreateAttr("class", class)
	}
	span.CreateText(text)
	return span
}

// TextContent returns the concatenated text of el and all descendants,
// in document order.
func TextContent(el *etree.Element) string {
	var b strings.Builder
	appendText(&b, el)
	return b.String()
}

func appendText(b *strings.Builder, el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			appendText(b, t)
		}
	}
}
