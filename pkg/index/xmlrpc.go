package index

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Minimal XML-RPC codec covering the three call shapes the search
// endpoint needs. Request parameters support strings, ints, string
// slices and string-keyed maps; responses decode into a generic value
// tree the client picks fields out of.

// encodeCall renders a methodCall document for method with the given
// positional params.
func encodeCall(method string, params []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<methodCall><methodName>")
	if err := escape(&buf, method); err != nil {
		return nil, err
	}
	buf.WriteString("</methodName><params>")
	for _, p := range params {
		buf.WriteString("<param>")
		if err := encodeValue(&buf, p); err != nil {
			return nil, err
		}
		buf.WriteString("</param>")
	}
	buf.WriteString("</params></methodCall>")
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any) error {
	buf.WriteString("<value>")
	defer buf.WriteString("</value>")

	switch x := v.(type) {
	case string:
		buf.WriteString("<string>")
		if err := escape(buf, x); err != nil {
			return err
		}
		buf.WriteString("</string>")
	case int:
		fmt.Fprintf(buf, "<int>%d</int>", x)
	case bool:
		b := "0"
		if x {
			b = "1"
		}
		fmt.Fprintf(buf, "<boolean>%s</boolean>", b)
	case []string:
		buf.WriteString("<array><data>")
		for _, s := range x {
			if err := encodeValue(buf, s); err != nil {
				return err
			}
		}
		buf.WriteString("</data></array>")
	case map[string]any:
		buf.WriteString("<struct>")
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys) // deterministic member order
		for _, k := range keys {
			buf.WriteString("<member><name>")
			if err := escape(buf, k); err != nil {
				return err
			}
			buf.WriteString("</name>")
			if err := encodeValue(buf, x[k]); err != nil {
				return err
			}
			buf.WriteString("</member>")
		}
		buf.WriteString("</struct>")
	default:
		return fmt.Errorf("xmlrpc: unsupported parameter type %T", v)
	}
	return nil
}

func escape(buf *bytes.Buffer, s string) error {
	return xml.EscapeText(buf, []byte(s))
}

// value is one decoded XML-RPC <value> node.
type value struct {
	Str     *string   `xml:"string"`
	Int     *string   `xml:"int"`
	I4      *string   `xml:"i4"`
	Double  *string   `xml:"double"`
	Boolean *string   `xml:"boolean"`
	Nil     *struct{} `xml:"nil"`
	Array   *array    `xml:"array"`
	Struct  *strct    `xml:"struct"`
	Text    string    `xml:",chardata"`
}

type array struct {
	Values []value `xml:"data>value"`
}

type strct struct {
	Members []member `xml:"member"`
}

type member struct {
	Name  string `xml:"name"`
	Value value  `xml:"value"`
}

type methodResponse struct {
	XMLName xml.Name `xml:"methodResponse"`
	Params  []value  `xml:"params>param>value"`
	Fault   *value   `xml:"fault>value"`
}

// decodeResponse parses a methodResponse and returns its single result
// value. Faults come back as errors.
func decodeResponse(r io.Reader) (value, error) {
	var resp methodResponse
	if err := xml.NewDecoder(r).Decode(&resp); err != nil {
		return value{}, fmt.Errorf("xmlrpc: decode response: %w", err)
	}
	if resp.Fault != nil {
		code, _ := resp.Fault.member("faultCode")
		msg, _ := resp.Fault.member("faultString")
		return value{}, fmt.Errorf("xmlrpc: fault %s: %s", strings.TrimSpace(code.scalar()), msg.scalar())
	}
	if len(resp.Params) == 0 {
		return value{}, nil
	}
	return resp.Params[0], nil
}

// scalar returns the node's string content. A bare <value>text</value>
// (no type element) is a string per the XML-RPC spec.
func (v value) scalar() string {
	switch {
	case v.Str != nil:
		return *v.Str
	case v.Int != nil:
		return strings.TrimSpace(*v.Int)
	case v.I4 != nil:
		return strings.TrimSpace(*v.I4)
	case v.Double != nil:
		return strings.TrimSpace(*v.Double)
	case v.Nil != nil:
		return ""
	}
	return strings.TrimSpace(v.Text)
}

// number returns the node's numeric content. Absent and <nil/> values
// report ok=false so callers can apply their own default.
func (v value) number() (float64, bool) {
	var raw string
	switch {
	case v.Int != nil:
		raw = *v.Int
	case v.I4 != nil:
		raw = *v.I4
	case v.Double != nil:
		raw = *v.Double
	default:
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// values returns the node's array elements, or nil for non-arrays.
func (v value) values() []value {
	if v.Array == nil {
		return nil
	}
	return v.Array.Values
}

// member looks up a struct member by name.
func (v value) member(name string) (value, bool) {
	if v.Struct == nil {
		return value{}, false
	}
	for _, m := range v.Struct.Members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return value{}, false
}

// empty reports whether the node carries no usable payload (a <nil/>,
// an empty struct, or an empty array) - the index's way of saying
// "no such release".
func (v value) empty() bool {
	switch {
	case v.Struct != nil:
		return len(v.Struct.Members) == 0
	case v.Array != nil:
		return len(v.Array.Values) == 0
	case v.Nil != nil:
		return true
	}
	return v.scalar() == ""
}
