package rawjson

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDecodeArray(t *testing.T) {
	objs, skipped := Decode([]byte(`[{"title":"CD"}, 3, {"title":"GG"}]`))
	if len(objs) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(objs))
	}
	if skipped != 1 {
		t.Errorf("expected 1 skipped element, got %d", skipped)
	}
	if objs[1].String("title") != "GG" {
		t.Errorf("unexpected title %q", objs[1].String("title"))
	}
}

func TestDecodeWrapper(t *testing.T) {
	objs, _ := Decode([]byte(`{"terms": [{"term":"YYDS"}], "version": 2}`))
	if len(objs) != 1 || objs[0].String("term") != "YYDS" {
		t.Fatalf("expected wrapped record, got %v", objs)
	}

	objs, _ = Decode([]byte(`{"whatever": [{"term":"A"}, {"term":"B"}]}`))
	if len(objs) != 2 {
		t.Fatalf("single array field should unwrap, got %d", len(objs))
	}
}

func TestDecodeSingleObject(t *testing.T) {
	objs, _ := Decode([]byte(`{"title":"CD","summary":"cooldown"}`))
	if len(objs) != 1 || objs[0].String("summary") != "cooldown" {
		t.Fatalf("expected single record, got %v", objs)
	}
}

func TestDecodeJSONLSkipsMalformed(t *testing.T) {
	data := "{\"term\":\"A\"}\n{broken\n\n{\"term\":\"B\"}\n"
	objs, skipped := Decode([]byte(data))
	if len(objs) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(objs))
	}
	if skipped != 1 {
		t.Errorf("expected 1 skipped line, got %d", skipped)
	}
}

func TestDecodeGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "[1,2", "nonsense"} {
		objs, _ := Decode([]byte(in))
		if len(objs) != 0 {
			t.Errorf("Decode(%q) should yield no objects, got %d", in, len(objs))
		}
	}
}

func TestStringCoercion(t *testing.T) {
	objs, _ := Decode([]byte(`{"a":"x","n":42,"b":true,"z":null,"o":{"k":1},"l":[1]}`))
	obj := objs[0]

	tests := []struct {
		keys []string
		want string
	}{
		{[]string{"a"}, "x"},
		{[]string{"n"}, "42"},
		{[]string{"b"}, "true"},
		{[]string{"z"}, ""},
		{[]string{"o"}, ""},
		{[]string{"l"}, ""},
		{[]string{"missing"}, ""},
		{[]string{"z", "a"}, "x"},
	}
	for _, tt := range tests {
		if got := obj.String(tt.keys...); got != tt.want {
			t.Errorf("String(%v) = %q, want %q", tt.keys, got, tt.want)
		}
	}
}

func TestStringsAndFloat(t *testing.T) {
	objs, _ := Decode([]byte(`{"tags":["a",1,null,{"x":1},""],"tag":"solo","v":"12.5","w":3,"bad":"12abc"}`))
	obj := objs[0]

	tags := obj.Strings("tags")
	if len(tags) != 2 || tags[0] != "a" || tags[1] != "1" {
		t.Errorf("unexpected tags %v", tags)
	}
	if solo := obj.Strings("tag"); len(solo) != 1 || solo[0] != "solo" {
		t.Errorf("scalar should become one-element list, got %v", solo)
	}
	if v, ok := obj.Float("v"); !ok || v != 12.5 {
		t.Errorf("Float(v) = %v, %v", v, ok)
	}
	if w, ok := obj.Float("w"); !ok || w != 3 {
		t.Errorf("Float(w) = %v, %v", w, ok)
	}
	if _, ok := obj.Float("bad"); ok {
		t.Error("Float(bad) should fail")
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.jsonl")
	if err := os.WriteFile(path, []byte("{\"title\":\"CD\"}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	objs, _, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(objs) != 1 {
		t.Fatalf("expected 1 object, got %d", len(objs))
	}

	if _, _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseAndLists(t *testing.T) {
	if _, ok := Parse([]byte(`[1,2]`)); ok {
		t.Error("array should not parse as object")
	}
	if _, ok := Parse([]byte(`{broken`)); ok {
		t.Error("invalid JSON should not parse")
	}

	obj, ok := Parse([]byte(`{"links":"none","edges":[{"a":1},2,{"a":3}],"names":["x",null]}`))
	if !ok {
		t.Fatal("expected object")
	}
	if got := obj.Objects("links", "edges"); len(got) != 2 {
		t.Errorf("expected 2 edge objects, got %d", len(got))
	}
	names, ok := obj.List("names")
	if !ok || len(names) != 2 {
		t.Fatalf("expected 2 names, got %v", names)
	}
	if s, ok := Scalar(names[1]); ok || s != "" {
		t.Errorf("null element should not be a scalar, got %q", s)
	}
	if _, ok := obj.List("missing"); ok {
		t.Error("missing key should report false")
	}
}
