package index

import (
	"strings"
	"testing"
)

func TestEncodeCall(t *testing.T) {
	body, err := encodeCall("search", []any{
		map[string]any{"name": []string{"web", "framework"}, "summary": []string{"web", "framework"}},
		"or",
	})
	if err != nil {
		t.Fatalf("encodeCall: %v", err)
	}

	got := string(body)
	// Map members are emitted in sorted key order, so the payload is
	// deterministic and cache keys stay stable.
	want := `<methodCall><methodName>search</methodName><params>` +
		`<param><value><struct>` +
		`<member><name>name</name><value><array><data>` +
		`<value><string>web</string></value><value><string>framework</string></value>` +
		`</data></array></value></member>` +
		`<member><name>summary</name><value><array><data>` +
		`<value><string>web</string></value><value><string>framework</string></value>` +
		`</data></array></value></member>` +
		`</struct></value></param>` +
		`<param><value><string>or</string></value></param>` +
		`</params></methodCall>`
	if !strings.HasSuffix(got, want) {
		t.Errorf("encodeCall =\n%s\nwant suffix\n%s", got, want)
	}
	if !strings.HasPrefix(got, "<?xml") {
		t.Errorf("encodeCall missing XML header: %s", got[:20])
	}
}

func TestEncodeCall_EscapesText(t *testing.T) {
	body, err := encodeCall("search", []any{"a<b&c"})
	if err != nil {
		t.Fatalf("encodeCall: %v", err)
	}
	if !strings.Contains(string(body), "a&lt;b&amp;c") {
		t.Errorf("special characters not escaped: %s", body)
	}
}

func TestEncodeCall_UnsupportedType(t *testing.T) {
	if _, err := encodeCall("m", []any{struct{}{}}); err == nil {
		t.Error("encodeCall accepted an unsupported parameter type")
	}
}

func TestDecodeResponse_HitArray(t *testing.T) {
	resp := `<?xml version="1.0"?>
<methodResponse><params><param><value><array><data>
  <value><struct>
    <member><name>name</name><value><string>requests</string></value></member>
    <member><name>summary</name><value><string>HTTP for Humans.</string></value></member>
    <member><name>version</name><value><string>2.31.0</string></value></member>
    <member><name>_pypi_ordering</name><value><int>42</int></value></member>
  </struct></value>
  <value><struct>
    <member><name>name</name><value>requests-mock</value></member>
    <member><name>version</name><value><string>1.0</string></value></member>
    <member><name>_pypi_ordering</name><value><nil/></value></member>
  </struct></value>
</data></array></value></param></params></methodResponse>`

	v, err := decodeResponse(strings.NewReader(resp))
	if err != nil {
		t.Fatalf("decodeResponse: %v", err)
	}

	hits := decodeHits(v.values())
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}

	if hits[0].Name != "requests" || hits[0].Summary != "HTTP for Humans." ||
		hits[0].Version != "2.31.0" || hits[0].Score != 42 {
		t.Errorf("hits[0] = %+v", hits[0])
	}
	// Untyped <value> text is a string; <nil/> ordering means score 0.
	if hits[1].Name != "requests-mock" || hits[1].Score != 0 {
		t.Errorf("hits[1] = %+v", hits[1])
	}
}

func TestDecodeResponse_Fault(t *testing.T) {
	resp := `<?xml version="1.0"?>
<methodResponse><fault><value><struct>
  <member><name>faultCode</name><value><int>-32601</int></value></member>
  <member><name>faultString</name><value><string>method not found</string></value></member>
</struct></value></fault></methodResponse>`

	_, err := decodeResponse(strings.NewReader(resp))
	if err == nil {
		t.Fatal("decodeResponse accepted a fault response")
	}
	if !strings.Contains(err.Error(), "method not found") {
		t.Errorf("fault error = %v, want faultString included", err)
	}
}

func TestValueEmpty(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want bool
	}{
		{"empty struct", `<methodResponse><params><param><value><struct/></value></param></params></methodResponse>`, true},
		{"nil", `<methodResponse><params><param><value><nil/></value></param></params></methodResponse>`, true},
		{"empty array", `<methodResponse><params><param><value><array><data/></array></value></param></params></methodResponse>`, true},
		{"populated struct", `<methodResponse><params><param><value><struct><member><name>name</name><value><string>x</string></value></member></struct></value></param></params></methodResponse>`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := decodeResponse(strings.NewReader(tt.xml))
			if err != nil {
				t.Fatalf("decodeResponse: %v", err)
			}
			if got := v.empty(); got != tt.want {
				t.Errorf("empty() = %v, want %v", got, tt.want)
			}
		})
	}
}
