package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestValidate(t *testing.T) {
	Convey("Validate 校验配置", t, func() {
		cfg := &Config{Server: ServerConfig{Port: 8080, Mode: "release"}}
		So(cfg.Validate(), ShouldBeNil)

		Convey("端口非法", func() {
			cfg.Server.Port = 70000
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("模式非法", func() {
			cfg.Server.Mode = "prod"
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("存储类型", func() {
			cfg.Storage.Type = "oss"
			So(cfg.Validate(), ShouldBeNil)
			cfg.Storage.Type = "s3"
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("朗读参数不能为负", func() {
			cfg.Narration.Rate = -1
			So(cfg.Validate(), ShouldNotBeNil)
		})
	})
}

func TestNarrationVoiceSettings(t *testing.T) {
	Convey("NarrationConfig.VoiceSettings", t, func() {
		Convey("空配置得到默认设置", func() {
			v := NarrationConfig{}.VoiceSettings()
			So(v.Language, ShouldEqual, "en-US")
			So(v.Rate, ShouldEqual, 1.0)
			So(v.Prosody.Enabled, ShouldBeTrue)
		})

		Convey("覆盖并钳制", func() {
			v := NarrationConfig{Language: "fr-CA", Personality: "dramatique", Rate: 5}.VoiceSettings()
			So(v.Language, ShouldEqual, "fr-CA")
			So(string(v.Personality), ShouldEqual, "dramatique")
			So(v.Rate, ShouldEqual, 2.0)
		})

		Convey("未知人设校验失败", func() {
			cfg := &Config{Server: ServerConfig{Port: 8080, Mode: "release"}}
			cfg.Narration.Personality = "pirate"
			So(cfg.Validate(), ShouldNotBeNil)
		})
	})
}
