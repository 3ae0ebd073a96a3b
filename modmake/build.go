package main

import (
	. "github.com/saylorsolutions/modmake"
)

const (
	paddownVersion = "0.1.0"
)

func main() {
	b := NewBuild()
	b.Generate().DependsOnRunner("tidy", "", Go().ModTidy())

	paddown := NewAppBuild("paddown", "cmd/paddown", paddownVersion)
	paddown.Build(func(gb *GoBuild) {
		gb.
			StripDebugSymbols().
			SetVariable("main", "version", paddownVersion).
			CgoEnabled(false)
	})
	for _, platform := range [][2]string{
		{"windows", "amd64"},
		{"linux", "amd64"},
		{"linux", "arm64"},
		{"darwin", "amd64"},
		{"darwin", "arm64"},
	} {
		paddown.Variant(platform[0], platform[1])
	}
	b.ImportApp(paddown)

	b.Execute()
}
