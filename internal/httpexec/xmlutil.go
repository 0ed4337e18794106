package httpexec

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"connectgate/internal/connectorerrors"
)

// PreprocessXMLResponse converts an XML connector response into canonical
// flattened JSON bytes, the Go port of the source system's
// preprocess_xml_response_bytes (grounded on original_source's
// utils/xml_utils.rs): strip an optional XML declaration, wrap bare
// ssl_*/error fragments in a <txn> root if the response omits one, parse,
// then flatten one level of nested {"$text": value} wrapper objects that a
// generic XML-to-struct walk produces for leaf elements.
func PreprocessXMLResponse(raw []byte) ([]byte, error) {
	s := strings.TrimSpace(string(raw))

	if strings.HasPrefix(s, "<?xml") {
		if pos := strings.Index(s, "?>"); pos >= 0 {
			s = strings.TrimSpace(s[pos+2:])
		}
	}

	if !strings.HasPrefix(s, "<txn>") && (strings.Contains(s, "<ssl_") || strings.Contains(s, "<error")) {
		s = "<txn>" + s + "</txn>"
	}

	node, err := parseXMLElement([]byte(s))
	if err != nil {
		return nil, connectorerrors.Wrap(connectorerrors.KindResponseDeserializationFailed, "failed to parse xml response", err)
	}

	flattened := flattenTxn(node)

	out, err := json.Marshal(flattened)
	if err != nil {
		return nil, connectorerrors.Wrap(connectorerrors.KindResponseDeserializationFailed, "failed to re-encode flattened xml", err)
	}
	return out, nil
}

// xmlNode is a minimal generic XML tree: a tag with either child elements
// or trimmed text content, never both (mirrors what quick_xml::de produces
// for these connectors' flat response shapes).
type xmlNode struct {
	name string
	text string
	children map[string]*xmlNode
}

func parseXMLElement(raw []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var root *xmlNode
	var stack []*xmlNode

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{name: t.Name.Local, children: map[string]*xmlNode{}}
			if len(stack) > 0 {
				stack[len(stack)-1].children[n.name] = n
			} else {
				root = n
			}
			stack = append(stack, n)
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("no root element found")
	}
	return root, nil
}

// flattenTxn extracts the <txn> element (or the root itself, if there is no
// txn wrapper) and flattens each child to a scalar: a leaf with only text
// becomes that trimmed string, a leaf with no children and no text becomes
// "", and an element with children is kept as a further nested map.
func flattenTxn(root *xmlNode) map[string]any {
	src := root
	if t, ok := root.children["txn"]; ok {
		src = t
	}

	out := map[string]any{}
	for key, child := range src.children {
		out[key] = flattenValue(child)
	}
	return out
}

func flattenValue(n *xmlNode) any {
	if len(n.children) == 0 {
		return strings.TrimSpace(n.text)
	}
	nested := map[string]any{}
	for key, child := range n.children {
		nested[key] = flattenValue(child)
	}
	return nested
}
