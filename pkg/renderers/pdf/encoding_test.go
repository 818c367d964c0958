package pdf

import "testing"

func TestEncodeText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii", in: "CAR: 1234", want: "CAR: 1234"},
		{name: "latin accents", in: "Observação", want: "Observa\xe7\xe3o"},
		{name: "decomposed accent", in: "c\u0327a\u0303", want: "\xe7\xe3"},
		{name: "windows-1252 extras", in: "€ “x”", want: "\x80 \x93x\x94"},
		{name: "unencodable", in: "área 😀 ok", want: "\xe1rea ? ok"},
		{name: "cjk", in: "地図", want: "??"},
		{name: "empty", in: "", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EncodeText(tc.in); got != tc.want {
				t.Fatalf("EncodeText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
