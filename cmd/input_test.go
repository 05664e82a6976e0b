package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestReadInput(t *testing.T) {
	Convey("读取文件", t, func() {
		path := filepath.Join(t.TempDir(), "texte.txt")
		So(os.WriteFile(path, []byte("Bonjour."), 0o644), ShouldBeNil)

		text, err := readInput([]string{path})
		So(err, ShouldBeNil)
		So(text, ShouldEqual, "Bonjour.")

		_, err = readInput([]string{filepath.Join(t.TempDir(), "absent.txt")})
		So(err, ShouldNotBeNil)
	})
}

func TestWriteFormatted(t *testing.T) {
	Convey("输出格式", t, func() {
		v := map[string]any{"language": "fr-CA", "segments": []string{"Un."}}

		var buf bytes.Buffer
		So(writeFormatted(&buf, "json", v), ShouldBeNil)
		So(buf.String(), ShouldContainSubstring, `"language": "fr-CA"`)

		buf.Reset()
		So(writeFormatted(&buf, "yaml", v), ShouldBeNil)
		So(buf.String(), ShouldContainSubstring, "language: fr-CA")
		So(buf.String(), ShouldContainSubstring, "- Un.")

		So(writeFormatted(&buf, "xml", v), ShouldNotBeNil)
	})
}
