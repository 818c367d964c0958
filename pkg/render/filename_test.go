package render

import "testing"

func TestFileName(t *testing.T) {
	cases := []struct {
		requester string
		ext       string
		want      string
	}{
		{requester: "Maria da Silva", ext: "pdf", want: "Maria da Silva.pdf"},
		{requester: "  João/José: Ltda. ", ext: ".docx", want: "JoãoJosé Ltda.docx"},
		{requester: "a_b-c", ext: "html", want: "a_b-c.html"},
		{requester: "", ext: "pdf", want: "Parecer.pdf"},
		{requester: "???", ext: "pdf", want: "Parecer.pdf"},
		{requester: "Ana", ext: "", want: "Ana"},
	}
	for _, tc := range cases {
		if got := FileName(tc.requester, tc.ext); got != tc.want {
			t.Fatalf("FileName(%q, %q) = %q, want %q", tc.requester, tc.ext, got, tc.want)
		}
	}
}
