package diagnostics

import (
	"strings"
	"testing"

	"github.com/aslcore/aslc/internal/lexer"
)

func TestSortedOrdersByPosition(t *testing.T) {
	var sink Sink
	sink.Add(Diagnostic{Kind: UndeclaredIdent, Pos: lexer.Position{Line: 3, Column: 1}})
	sink.Add(Diagnostic{Kind: IncompatibleAssignment, Pos: lexer.Position{Line: 1, Column: 5}})
	sink.Add(Diagnostic{Kind: BooleanRequired, Pos: lexer.Position{Line: 1, Column: 2}})

	sorted := sink.Sorted()
	if len(sorted) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(sorted))
	}
	if sorted[0].Kind != BooleanRequired || sorted[1].Kind != IncompatibleAssignment || sorted[2].Kind != UndeclaredIdent {
		t.Fatalf("diagnostics not sorted by source position: %+v", sorted)
	}
}

func TestEmptyAndLen(t *testing.T) {
	var sink Sink
	if !sink.Empty() {
		t.Fatal("a fresh Sink should be empty")
	}
	sink.Add(Diagnostic{Kind: NoMainProperlyDeclared})
	if sink.Empty() || sink.Len() != 1 {
		t.Fatal("Sink should report one diagnostic after Add")
	}
}

func TestFormatIncludesCaretAndMessage(t *testing.T) {
	d := Diagnostic{Kind: UndeclaredIdent, Pos: lexer.Position{Line: 2, Column: 5}, Message: "undeclared identifier \"y\""}
	source := "func main()\n  write y;\nendfunc"
	out := Format(d, "prog.asl", source)
	if !strings.Contains(out, "Error in prog.asl:2:5") {
		t.Errorf("Format output missing header: %q", out)
	}
	if !strings.Contains(out, "write y;") {
		t.Errorf("Format output missing source line: %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("Format output missing caret: %q", out)
	}
	if !strings.Contains(out, "UndeclaredIdent") || !strings.Contains(out, `undeclared identifier "y"`) {
		t.Errorf("Format output missing kind/message: %q", out)
	}
}
