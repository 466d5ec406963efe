package gosonar_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/securego/gosonar"
)

var _ = Describe("Configuration", func() {
	var configuration gosonar.Config
	BeforeEach(func() {
		configuration = gosonar.NewConfig()
	})

	Context("when loading from disk", func() {
		It("should be possible to load configuration from a file", func() {
			json := `{"report": {}}`
			buffer := bytes.NewBufferString(json)
			nread, err := configuration.ReadFrom(buffer)
			Expect(nread).Should(Equal(int64(len(json))))
			Expect(err).ShouldNot(HaveOccurred())
		})

		It("should load YAML documents", func() {
			yaml := "global:\n  url: https://sonar.example.com\n  retries: 5\n"
			_, err := configuration.ReadFrom(strings.NewReader(yaml))
			Expect(err).ShouldNot(HaveOccurred())

			value, err := configuration.GetGlobal(gosonar.URL)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal("https://sonar.example.com"))

			retries, err := configuration.GetGlobal(gosonar.Retries)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(retries).Should(Equal("5"))
		})

		It("should return an error if configuration file is invalid", func() {
			var err error
			invalidBuffer := bytes.NewBuffer([]byte{0xc0, 0xff, 0xee})
			_, err = configuration.ReadFrom(invalidBuffer)
			Expect(err).Should(HaveOccurred())

			emptyBuffer := bytes.NewBuffer([]byte{})
			_, err = configuration.ReadFrom(emptyBuffer)
			Expect(err).Should(HaveOccurred())
		})
	})

	Context("when saving to disk", func() {
		It("should be possible to save an empty configuration to file", func() {
			expected := `{"global":{}}`
			buffer := bytes.NewBuffer([]byte{})
			nbytes, err := configuration.WriteTo(buffer)
			Expect(int(nbytes)).Should(Equal(len(expected)))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(buffer.String()).Should(Equal(expected))
		})

		It("should be possible to save configuration to file", func() {
			configuration.Set("report", map[string]string{
				"format": "sarif",
			})

			buffer := bytes.NewBuffer([]byte{})
			nbytes, err := configuration.WriteTo(buffer)
			Expect(int(nbytes)).ShouldNot(BeZero())
			Expect(err).ShouldNot(HaveOccurred())
			Expect(buffer.String()).Should(Equal(`{"global":{},"report":{"format":"sarif"}}`))
		})
	})

	Context("when configuring sections", func() {
		It("should be possible to get a section", func() {
			configuration.Set("report", map[string]string{"format": "sarif"})

			retrieved, err := configuration.Get("report")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(retrieved).Should(HaveKeyWithValue("format", "sarif"))
			Expect(retrieved).ShouldNot(HaveKey("foobar"))
		})

		It("should fail on a missing section", func() {
			_, err := configuration.Get("missing")
			Expect(err).Should(HaveOccurred())
		})
	})

	Context("when using global configuration options", func() {
		It("should have a default global section", func() {
			settings, err := configuration.Get("global")
			Expect(err).Should(BeNil())
			expectedType := make(map[gosonar.GlobalOption]string)
			Expect(settings).Should(BeAssignableToTypeOf(expectedType))
		})

		It("should save global settings to correct section", func() {
			configuration.SetGlobal(gosonar.Insecure, "enabled")
			settings, err := configuration.Get("global")
			Expect(err).Should(BeNil())
			if globals, ok := settings.(map[gosonar.GlobalOption]string); ok {
				Expect(globals["insecure"]).Should(MatchRegexp("enabled"))
			} else {
				Fail("globals are not defined as map")
			}

			setValue, err := configuration.GetGlobal(gosonar.Insecure)
			Expect(err).Should(BeNil())
			Expect(setValue).Should(MatchRegexp("enabled"))
		})

		It("should find global settings which are enabled", func() {
			configuration.SetGlobal(gosonar.Insecure, "enabled")
			enabled, err := configuration.IsGlobalEnabled(gosonar.Insecure)
			Expect(err).Should(BeNil())
			Expect(enabled).Should(BeTrue())
		})

		It("should parse the global settings of type string from file", func() {
			config := `
			{
				"global": {
					"token": "squ_abc"
				}
			}`
			cfg := gosonar.NewConfig()
			_, err := cfg.ReadFrom(strings.NewReader(config))
			Expect(err).Should(BeNil())

			value, err := cfg.GetGlobal(gosonar.Token)
			Expect(err).Should(BeNil())
			Expect(value).Should(Equal("squ_abc"))
		})

		It("should parse the global settings of other types from file", func() {
			config := `
			{
				"global": {
					"insecure": true,
					"timeout": 10
				}
			}`
			cfg := gosonar.NewConfig()
			_, err := cfg.ReadFrom(strings.NewReader(config))
			Expect(err).Should(BeNil())

			value, err := cfg.GetGlobal(gosonar.Insecure)
			Expect(err).Should(BeNil())
			Expect(value).Should(Equal("true"))

			timeout, err := cfg.GetGlobal(gosonar.Timeout)
			Expect(err).Should(BeNil())
			Expect(timeout).Should(Equal("10"))
		})
	})

	Context("when building client options", func() {
		It("should return no option for an empty configuration", func() {
			opts, err := configuration.ClientOptions()
			Expect(err).ShouldNot(HaveOccurred())
			Expect(opts).Should(BeEmpty())
		})

		It("should build the options of every global setting", func() {
			configuration.SetGlobal(gosonar.Token, "squ_abc")
			configuration.SetGlobal(gosonar.Timeout, "1m")
			configuration.SetGlobal(gosonar.Insecure, "true")
			configuration.SetGlobal(gosonar.Retries, "0")

			opts, err := configuration.ClientOptions()
			Expect(err).ShouldNot(HaveOccurred())
			Expect(opts).Should(HaveLen(4))

			client, err := gosonar.NewClient("https://sonar.example.com", opts...)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(client).ShouldNot(BeNil())
		})

		It("should use basic authentication when there is no token", func() {
			configuration.SetGlobal(gosonar.Login, "admin")
			configuration.SetGlobal(gosonar.Password, "admin")

			opts, err := configuration.ClientOptions()
			Expect(err).ShouldNot(HaveOccurred())
			Expect(opts).Should(HaveLen(1))
		})

		It("should require a password with a login", func() {
			configuration.SetGlobal(gosonar.Login, "admin")

			_, err := configuration.ClientOptions()
			Expect(err).Should(MatchError("password is required when username is provided"))
		})

		It("should reject invalid numbers", func() {
			configuration.SetGlobal(gosonar.Timeout, "soon")
			_, err := configuration.ClientOptions()
			Expect(err).Should(HaveOccurred())

			configuration.SetGlobal(gosonar.Timeout, "30")
			configuration.SetGlobal(gosonar.Retries, "many")
			_, err = configuration.ClientOptions()
			Expect(err).Should(HaveOccurred())
		})
	})
})
