package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/scanrt/config"
	"github.com/sarchlab/scanrt/driver"
)

const palletizerScript = `
- cycle: 1
  set:
    Stop: true
- cycle: 2
  set:
    Start: true
- cycle: 3
  set:
    Start: false
`

var _ = Describe("addr", func() {
	It("should resolve addresses and symbols", func() {
		out := new(bytes.Buffer)
		rootCmd.SetOut(out)
		rootCmd.SetArgs([]string{"addr", "--program", "warehouse", "doSync", "qb0"})
		DeferCleanup(func() { addrProgram = "" })

		Expect(rootCmd.Execute()).To(Succeed())

		Expect(out.String()).To(ContainSubstring("doSync\tM106.3\tbit\n"))
		Expect(out.String()).To(ContainSubstring("qb0\tQB0\tbyte\n"))
	})

	It("should reject a bad address", func() {
		_, err := resolveAddr("X9.9", nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("programs", func() {
	It("should list every program", func() {
		out := new(bytes.Buffer)
		rootCmd.SetOut(out)
		rootCmd.SetArgs([]string{"programs"})

		Expect(rootCmd.Execute()).To(Succeed())

		Expect(out.String()).To(ContainSubstring("palletizer"))
		Expect(out.String()).To(ContainSubstring("picknplace"))
		Expect(out.String()).To(ContainSubstring("warehouse"))
	})
})

var _ = Describe("run", func() {
	var (
		dir string
		cfg config.Config
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()

		script := filepath.Join(dir, "start.yaml")
		Expect(os.WriteFile(script, []byte(palletizerScript), 0o644)).To(Succeed())

		cfg = config.Default()
		cfg.Program = "palletizer"
		cfg.Script = script
		cfg.Period = 0
	})

	It("should replay a script and print output changes", func() {
		out := new(bytes.Buffer)

		err := run(context.Background(), cfg, slog.New(slog.DiscardHandler), out)

		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(HavePrefix("     1  "))
	})

	It("should record the run", func() {
		cfg.Record.Enabled = true
		cfg.Record.Path = filepath.Join(dir, "rec")

		err := run(context.Background(), cfg, slog.New(slog.DiscardHandler), new(bytes.Buffer))

		Expect(err).NotTo(HaveOccurred())
		Expect(filepath.Join(dir, "rec.sqlite3")).To(BeAnExistingFile())
	})

	It("should fail on an unknown program", func() {
		cfg.Program = "mixer"

		err := run(context.Background(), cfg, slog.New(slog.DiscardHandler), new(bytes.Buffer))

		Expect(err).To(MatchError(ContainSubstring("mixer")))
	})
})

var _ = Describe("printTrace", func() {
	It("should print only the cycles where the outputs changed", func() {
		out := new(bytes.Buffer)

		printTrace(out, []driver.TraceEntry{
			{Cycle: 1, Outputs: []byte{0, 0}},
			{Cycle: 2, Outputs: []byte{1, 0}},
			{Cycle: 3, Outputs: []byte{1, 0}},
			{Cycle: 4, Outputs: []byte{1, 2}},
		})

		Expect(out.String()).To(Equal(
			"     1  00\n" +
				"     2  01\n" +
				"     4  01 02\n"))
	})
})
