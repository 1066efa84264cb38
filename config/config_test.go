package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/armsim/config"
)

var _ = Describe("Config", func() {
	Describe("DefaultConfig", func() {
		It("should provide sensible execution defaults", func() {
			cfg := config.DefaultConfig()

			Expect(cfg.Execution.MaxCycles).To(Equal(uint64(1_000_000)))
			Expect(cfg.BaseAddress()).To(Equal(uint64(0x400000)))
			Expect(cfg.EntryAddress()).To(Equal(uint64(0x400000)))
			Expect(cfg.Display.WordsPerLine).To(Equal(4))
		})
	})

	Describe("Load", func() {
		var dir string

		BeforeEach(func() {
			var err error
			dir, err = os.MkdirTemp("", "armsim-config-*")
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(func() { _ = os.RemoveAll(dir) })
		})

		It("should return defaults for an empty path", func() {
			cfg, err := config.Load("")

			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.DefaultConfig()))
		})

		It("should overlay file values on the defaults", func() {
			path := filepath.Join(dir, "armsim.toml")
			content := `
[execution]
max_cycles = 500
entry = "0x1000"
`
			Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())

			cfg, err := config.Load(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Execution.MaxCycles).To(Equal(uint64(500)))
			Expect(cfg.EntryAddress()).To(Equal(uint64(0x1000)))
			// Untouched values keep their defaults.
			Expect(cfg.BaseAddress()).To(Equal(uint64(0x400000)))
		})

		It("should reject unparsable addresses", func() {
			path := filepath.Join(dir, "armsim.toml")
			content := `
[execution]
base = "zero"
`
			Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())

			_, err := config.Load(path)

			Expect(err).To(HaveOccurred())
		})

		It("should report missing files", func() {
			_, err := config.Load(filepath.Join(dir, "missing.toml"))

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ParseAddress", func() {
		It("should parse hex and decimal", func() {
			Expect(config.ParseAddress("0x1000")).To(Equal(uint64(0x1000)))
			Expect(config.ParseAddress("0X20")).To(Equal(uint64(0x20)))
			Expect(config.ParseAddress("4096")).To(Equal(uint64(4096)))
		})

		It("should reject junk", func() {
			_, err := config.ParseAddress("")
			Expect(err).To(HaveOccurred())

			_, err = config.ParseAddress("0xZZ")
			Expect(err).To(HaveOccurred())

			_, err = config.ParseAddress("-1")
			Expect(err).To(HaveOccurred())
		})
	})
})
