// Binary bro-spool-bench measures spool writer throughput.
package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/krsnat/bro/internal/compress"
	"github.com/krsnat/bro/proto"
	"github.com/krsnat/bro/spool"
)

func run() error {
	var arg struct {
		Count  int
		Method string
	}
	flag.IntVar(&arg.Count, "n", 10_000_000, "entries to write")
	flag.StringVar(&arg.Method, "method", "LZ4", "compression method")
	flag.Parse()

	lg, err := zap.NewDevelopment()
	if err != nil {
		return errors.Wrap(err, "logger")
	}
	defer func() { _ = lg.Sync() }()

	method, err := compress.MethodString(arg.Method)
	if err != nil {
		return errors.Wrap(err, "method")
	}

	w := spool.NewWriter(io.Discard, spool.WriterOptions{
		Logger: lg,
		Method: method,
	})

	rnd := rand.New(rand.NewSource(1))
	start := time.Now()
	for i := 0; i < arg.Count; i++ {
		var orig, resp [4]byte
		rnd.Read(orig[:])
		rnd.Read(resp[:])
		e := spool.Entry{
			Time:     uint64(start.UnixNano()) + uint64(i),
			Orig:     proto.AddrFrom4(orig),
			Resp:     proto.AddrFrom4(resp),
			OrigPort: uint16(rnd.Intn(1 << 16)),
			RespPort: 69,
			Proto:    17, // udp
			Analyzer: "TFTP",
		}
		if err := w.Add(e); err != nil {
			return errors.Wrap(err, "add")
		}
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "close")
	}

	duration := time.Since(start)
	stats := w.Stats()
	lg.Info("Done",
		zap.Duration("duration", duration),
		zap.Int("entries", stats.Entries),
		zap.Int("blocks", stats.Blocks),
		zap.String("raw", humanize.Bytes(uint64(stats.Raw))),
		zap.String("compressed", humanize.Bytes(uint64(stats.Compressed))),
		zap.String("rate", humanize.Bytes(uint64(float64(stats.Raw)/duration.Seconds()))+"/sec"),
	)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(2)
	}
}
