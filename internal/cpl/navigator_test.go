package cpl

import (
	"testing"

	"github.com/beevik/etree"
)

func TestSplitQName(t *testing.T) {
	tests := []struct {
		input     string
		namespace string
		local     string
	}{
		{"{http://example.com/ns}Element", "http://example.com/ns", "Element"},
		{"Element", "", "Element"},
		{"{}Element", "", "Element"},
		{"{urn:x}a:b", "urn:x", "a:b"},
	}
	for _, tc := range tests {
		namespace, local := SplitQName(tc.input)
		if namespace != tc.namespace || local != tc.local {
			t.Fatalf("SplitQName(%q) = (%q, %q), want (%q, %q)",
				tc.input, namespace, local, tc.namespace, tc.local)
		}
	}
}

const navigatorFixture = `<?xml version="1.0" encoding="UTF-8"?>
<Root xmlns="urn:test:main" xmlns:m="urn:test:meta">
  <List>
    <Item>
      <Name>first</Name>
      <m:Tag>alpha</m:Tag>
    </Item>
    <Item>
      <Name>second</Name>
      <m:Tag>beta</m:Tag>
      <Nested>
        <m:Tag>gamma</m:Tag>
      </Nested>
    </Item>
  </List>
  <Empty></Empty>
</Root>`

func navigatorTestRoot(t *testing.T) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(navigatorFixture); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc.Root()
}

func testNavigator() Navigator {
	return NewNavigator(map[string]string{
		"t": "urn:test:main",
		"m": "urn:test:meta",
	})
}

func TestNavigatorFirstAndAll(t *testing.T) {
	root := navigatorTestRoot(t)
	nav := testNavigator()

	first := nav.First(root, "t:List/t:Item/t:Name")
	if first == nil || first.Text() != "first" {
		t.Fatalf("First returned %v", first)
	}

	all := nav.All(root, "t:List/t:Item")
	if len(all) != 2 {
		t.Fatalf("All returned %d items", len(all))
	}

	if nav.First(root, "t:List/t:Missing") != nil {
		t.Fatal("expected nil for absent path")
	}
}

func TestNavigatorDescendants(t *testing.T) {
	root := navigatorTestRoot(t)
	nav := testNavigator()

	tags := nav.Descendants(root, "m:Tag")
	if len(tags) != 3 {
		t.Fatalf("Descendants found %d tags", len(tags))
	}
	if tags[0].Text() != "alpha" || tags[2].Text() != "gamma" {
		t.Fatalf("unexpected document order: %s, %s", tags[0].Text(), tags[2].Text())
	}

	// Head segment at any depth, tail segment as direct child.
	nested := nav.Descendants(root, "t:Nested/m:Tag")
	if len(nested) != 1 || nested[0].Text() != "gamma" {
		t.Fatalf("nested path lookup failed: %v", nested)
	}

	if got := nav.Descendant(root, "m:Tag"); got == nil || got.Text() != "alpha" {
		t.Fatalf("Descendant should return first match in document order")
	}
}

func TestNavigatorText(t *testing.T) {
	root := navigatorTestRoot(t)
	nav := testNavigator()

	if text, ok := nav.Text(root, "t:Name"); !ok || text != "first" {
		t.Fatalf("Text = (%q, %v)", text, ok)
	}

	// Present but empty is distinguishable from absent.
	if text, ok := nav.Text(root, "t:Empty"); !ok || text != "" {
		t.Fatalf("empty element: (%q, %v)", text, ok)
	}
	if _, ok := nav.Text(root, "t:Absent"); ok {
		t.Fatal("absent element should report !ok")
	}
}

func TestNavigatorQualifiedNameSegment(t *testing.T) {
	root := navigatorTestRoot(t)
	nav := NewNavigator(nil)

	tags := nav.Descendants(root, "{urn:test:meta}Tag")
	if len(tags) != 3 {
		t.Fatalf("qualified-name segment found %d tags", len(tags))
	}
}

func TestNavigatorUnboundPrefixPanics(t *testing.T) {
	root := navigatorTestRoot(t)
	nav := testNavigator()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unbound prefix")
		}
	}()
	nav.First(root, "nope:Element")
}
