// Command bgpupdump scans MRT archives (bzip2 or plain) and dumps the
// decoded BGP UPDATE records they contain as text or JSON, optionally
// filtered by source/destination AS and reduced to a unique-prefix
// summary.
package main

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	bgp "github.com/CSUNetSec/bgpupdate/protocol/bgp"
	"github.com/CSUNetSec/bgpupdate/filter"
	"github.com/CSUNetSec/bgpupdate/fileutil"
	mrt "github.com/CSUNetSec/bgpupdate/protocol/mrt"
	"github.com/CSUNetSec/bgpupdate/protocol/rib"
	"github.com/CSUNetSec/bgpupdate/util"
)

var (
	logout     string
	dumpout    string
	statout    string
	isJSON     bool
	pup        bool
	pts        bool
	destAsList string
	srcAsList  string
	useV4Add   bool
	confFile   string
)

func init() {
	flag.StringVar(&logout, "lo", "stdout", "file to dump log output")
	flag.StringVar(&dumpout, "o", "stdout", "file to dump entries")
	flag.StringVar(&statout, "so", "stdout", "file to dump statistics output")
	flag.BoolVar(&isJSON, "json", false, "print each UPDATE as a JSON object")
	flag.BoolVar(&pup, "pup", false, "print each advertised prefix once, omitting prefixes covered by another printed prefix")
	flag.BoolVar(&pts, "pts", false, "like -pup, but emit a gob time series including withdrawals")
	flag.StringVar(&destAsList, "dest", "", "comma separated AS numbers to filter message destination by")
	flag.StringVar(&srcAsList, "src", "", "comma separated AS numbers to filter message source by")
	flag.BoolVar(&useV4Add, "addpath", false, "assume Add-Path is negotiated for IPv4 unicast")
	flag.StringVar(&confFile, "conf", "", "JSON filter config file (prefix/AS lists); combined with -dest/-src")
}

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		log.Fatal("no MRT file provided")
	}
	if pts && (dumpout == "stdout" || dumpout == "stderr") {
		log.Fatal("-pts requires a real -o file path, not stdout/stderr")
	}

	logFd := openOrStd(logout, true)
	defer logFd.Close()
	log.SetOutput(logFd)

	statFd := openOrStd(statout, true)
	defer statFd.Close()

	// -pts writes a self-framing length-prefixed stream via
	// util.FlatRecordFile rather than a bare gob stream, so the
	// output can be scanned back record-by-record later. That needs
	// a real path of its own, so it isn't also opened as dumpFd.
	var dumpFd *os.File
	var flatOut *util.FlatRecordFile
	if pts && dumpout != "stdout" && dumpout != "stderr" {
		flatOut = util.NewFlatRecordFile(dumpout)
		if err := flatOut.Open(); err != nil {
			log.Fatalf("opening %s: %s", dumpout, err)
		}
		defer flatOut.Close()
	} else {
		dumpFd = openOrStd(dumpout, true)
		defer dumpFd.Close()
	}

	var filters []filter.Filter
	if confFile != "" {
		confFilters, err := fileutil.NewFiltersFromFile(confFile)
		if err != nil {
			log.Fatalf("parsing -conf %s: %s", confFile, err)
		}
		filters = append(filters, confFilters...)
	}
	if destAsList != "" {
		f, err := filter.NewASFilter(destAsList, filter.AS_DESTINATION)
		if err != nil {
			log.Fatalf("parsing -dest: %s", err)
		}
		filters = append(filters, f)
	}
	if srcAsList != "" {
		f, err := filter.NewASFilter(srcAsList, filter.AS_SOURCE)
		if err != nil {
			log.Fatalf("parsing -src: %s", err)
		}
		filters = append(filters, f)
	}

	peer := bgp.NewPeerCapabilities()
	if useV4Add {
		peer.AddPathPerAfiSafi[bgp.AfiSafi{AFI: bgp.AFI_IPv4, SAFI: bgp.SAFI_Unicast}] = true
	}

	var fm formatter
	switch {
	case isJSON:
		fm = jsonFormatter{}
	case pup || pts:
		fm = newPrefixSummaryFormatter(dumpFd, flatOut, pts)
	default:
		fm = textFormatter{}
	}

	start := time.Now()
	totalEntries := 0
	for _, name := range args {
		n := dumpFile(name, peer, filters, fm, dumpFd, statFd)
		totalEntries += n
	}
	fm.summarize()
	fmt.Fprintf(statFd, "Dumped %d files, %d entries, total time %s\n", len(args), totalEntries, time.Since(start))
}

func openOrStd(name string, write bool) *os.File {
	if name == "stdout" {
		return os.Stdout
	}
	if name == "stderr" {
		return os.Stderr
	}
	fd, err := os.Create(name)
	if err != nil {
		log.Fatalf("opening %s: %s", name, err)
	}
	return fd
}

func dumpFile(name string, peer *bgp.PeerCapabilities, filters []filter.Filter, fm formatter, dumpFd, statFd *os.File) int {
	reader, err := fileutil.NewMrtFileReader(name, peer, filters)
	if err != nil {
		fmt.Fprintf(statFd, "error opening %s: %s\n", name, err)
		return 0
	}
	defer reader.Close()

	entryCt := 0
	start := time.Now()
	for reader.Scan() {
		rec, err := reader.Record()
		if err != nil {
			log.Printf("[%s #%d] %s", name, entryCt, err)
			continue
		}
		entryCt++
		out, err := fm.format(rec)
		if err != nil {
			log.Printf("[%s #%d] format: %s", name, entryCt, err)
			continue
		}
		if out != "" {
			dumpFd.WriteString(out)
		}
	}
	if err := reader.Err(); err != nil {
		fmt.Fprintf(statFd, "scanner error in %s: %s\n", name, err)
	}
	fmt.Fprintf(statFd, "scanned %s: %d entries in %s\n", name, entryCt, time.Since(start))
	return entryCt
}

// formatter turns one decoded MRT record into dump output.
// summarize is called once after every file has been scanned.
type formatter interface {
	format(*mrt.Record) (string, error)
	summarize()
}

type textFormatter struct{}

func (textFormatter) format(r *mrt.Record) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] peer_as=%d local_as=%d\n", r.Timestamp(), r.Peer.PeerAS, r.Peer.LocalAS)
	if r.Update.EndOfRIB {
		b.WriteString("  END-OF-RIB\n")
		return b.String(), nil
	}
	for _, p := range r.AdvertisedPrefixes() {
		fmt.Fprintf(&b, "  + %s\n", p)
	}
	for _, p := range r.WithdrawnPrefixes() {
		fmt.Fprintf(&b, "  - %s\n", p)
	}
	if path := r.ASPath(); len(path) > 0 {
		fmt.Fprintf(&b, "  as_path: %s\n", strings.Join(path, " "))
	}
	return b.String(), nil
}

func (textFormatter) summarize() {}

type jsonFormatter struct{}

func (jsonFormatter) format(r *mrt.Record) (string, error) {
	out, err := json.Marshal(r.Update)
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

func (jsonFormatter) summarize() {}

// prefixSummaryFormatter backs -pup/-pts: it folds every announced
// prefix (and, for -pts, every withdrawn prefix) into a
// rib.PrefixIndex as records stream in, and
// emits the deduplicated result at summarize time. -pts time series
// are gob-encoded per prefix and written as length-prefixed records
// through a util.FlatRecordFile, so the output file can later be
// scanned back one History at a time instead of decoded as one long
// gob stream.
type prefixSummaryFormatter struct {
	idx  *rib.PrefixIndex
	out  *os.File
	flat *util.FlatRecordFile
	isTS bool
}

func newPrefixSummaryFormatter(out *os.File, flat *util.FlatRecordFile, isTS bool) *prefixSummaryFormatter {
	return &prefixSummaryFormatter{idx: rib.NewPrefixIndex(isTS), out: out, flat: flat, isTS: isTS}
}

func (p *prefixSummaryFormatter) format(r *mrt.Record) (string, error) {
	t := r.Timestamp()
	for _, n := range r.Update.NLRIList {
		p.idx.Observe(n, t, true)
	}
	if p.isTS {
		for _, n := range r.Update.WithdrawnNLRIList {
			p.idx.Observe(n, t, false)
		}
	}
	return "", nil
}

func (p *prefixSummaryFormatter) summarize() {
	p.idx.Walk(func(h *rib.History) {
		if p.isTS {
			var buf bytes.Buffer
			if err := gob.NewEncoder(&buf).Encode(h); err != nil {
				log.Printf("encoding prefix history for %s: %s", h.Prefix, err)
				return
			}
			if _, err := p.flat.Write(buf.Bytes()); err != nil {
				log.Printf("writing prefix history for %s: %s", h.Prefix, err)
			}
			return
		}
		if len(h.Events) > 0 {
			fmt.Fprintf(p.out, "%s %d\n", h.Prefix, h.Events[0].Timestamp.Unix())
		}
	})
}
