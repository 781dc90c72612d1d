package resolve

import (
	"github.com/beevik/etree"
)

// imgTag serializes self-closing img element with attributes in given order,
// attribute values are escaped by etree.
func imgTag(kv ...string) (string, error) {
	img := etree.NewElement("img")
	for i := 0; i+1 < len(kv); i += 2 {
		img.CreateAttr(kv[i], kv[i+1])
	}
	doc := etree.NewDocument()
	doc.SetRoot(img)
	return doc.WriteToString()
}

func comment(text string) string {
	return "<!-- " + text + " -->"
}
