package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format Format
		wide   bool
	}{
		{FormatJSON, false},
		{FormatYAML, false},
		{FormatTable, false},
		{FormatTable, true},
		{"unknown", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f := NewFormatter(tt.format, tt.wide)
			switch tt.format {
			case FormatJSON:
				if _, ok := f.(*JSONFormatter); !ok {
					t.Errorf("got %T, want *JSONFormatter", f)
				}
			case FormatYAML:
				if _, ok := f.(*YAMLFormatter); !ok {
					t.Errorf("got %T, want *YAMLFormatter", f)
				}
			default:
				tf, ok := f.(*TableFormatter)
				if !ok {
					t.Fatalf("got %T, want *TableFormatter", f)
				}
				if tf.Wide != tt.wide {
					t.Errorf("Wide = %v, want %v", tf.Wide, tt.wide)
				}
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "json", "yaml"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) = %v", s, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

type hall struct {
	HallID string `json:"hall_id"`
	Inside int64  `json:"inside"`
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, hall{HallID: "A", Inside: 3}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"hall_id": "A"`) {
		t.Errorf("output = %s", buf.String())
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := []hall{{HallID: "A", Inside: 3}, {HallID: "B", Inside: 0}}
	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatal(err)
	}

	want := "- hall_id: A\n  inside: 3\n- hall_id: B\n  inside: 0\n"
	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
}

type hallList []hall

func (l hallList) Table(wide bool) *Table {
	t := NewTable("HALL", "INSIDE")
	for _, h := range l {
		t.AddRow(h.HallID, "n")
	}
	if wide {
		t.Headers = append(t.Headers, "EXTRA")
	}
	return t
}

func TestTableFormatter(t *testing.T) {
	t.Run("tabler", func(t *testing.T) {
		var buf bytes.Buffer
		if err := (&TableFormatter{}).Format(&buf, hallList{{HallID: "A"}}); err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 || !strings.HasPrefix(lines[0], "HALL") || !strings.HasPrefix(lines[1], "A") {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("no headers", func(t *testing.T) {
		var buf bytes.Buffer
		tbl := NewTable("A", "B")
		tbl.AddRow("1", "")
		if err := (&TableFormatter{NoHeaders: true}).Format(&buf, tbl); err != nil {
			t.Fatal(err)
		}
		if got := strings.TrimSpace(buf.String()); got != "1  -" {
			t.Errorf("output = %q, want %q", got, "1  -")
		}
	})

	t.Run("json fallback", func(t *testing.T) {
		var buf bytes.Buffer
		if err := (&TableFormatter{}).Format(&buf, map[string]int{"x": 1}); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), `"x": 1`) {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("nil", func(t *testing.T) {
		var buf bytes.Buffer
		if err := (&TableFormatter{}).Format(&buf, nil); err != nil || buf.Len() != 0 {
			t.Errorf("err = %v, output = %q", err, buf.String())
		}
	})
}

func TestTable_Alignment(t *testing.T) {
	tbl := NewTable("CAMERA", "INSIDE")
	tbl.AddRow("cam-long-name", "4")
	tbl.AddRow("c1", "12")

	var buf bytes.Buffer
	if err := tbl.Render(&buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}
	col := strings.Index(lines[0], "INSIDE")
	for _, l := range lines[1:] {
		if len(l) <= col || l[col-1] != ' ' {
			t.Errorf("misaligned line %q (column %d)", l, col)
		}
	}
}

func TestTime(t *testing.T) {
	if Time(time.Time{}) != "-" {
		t.Error("zero time should render as -")
	}
	ts := time.Date(2026, 3, 1, 10, 30, 0, 0, time.Local)
	if got := Time(ts); got != "2026-03-01 10:30:00" {
		t.Errorf("Time = %q", got)
	}
}

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner(t *testing.T) {
	buf := &syncBuffer{}
	s := NewSpinner(buf, "adding camera")
	s.interval = time.Millisecond

	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Success("camera added")
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "adding camera") {
		t.Errorf("missing message in %q", out)
	}
	if !strings.HasSuffix(out, "✓ camera added\n") {
		t.Errorf("output should end with success line: %q", out)
	}
}

func TestSpinner_Fail(t *testing.T) {
	buf := &syncBuffer{}
	s := NewSpinner(buf, "removing")
	s.Start()
	s.Fail("backend rejected")

	if !strings.HasSuffix(buf.String(), "✗ backend rejected\n") {
		t.Errorf("output = %q", buf.String())
	}
}
