// Package monitoring turns a running scan program into a small web server
// that shows its state and lets an operator pause and resume it.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/sarchlab/scanrt/memimage"
	"github.com/sarchlab/scanrt/monitoring/web"
	"github.com/sarchlab/scanrt/queue"
	"github.com/sarchlab/scanrt/scan"
	"github.com/sarchlab/scanrt/station"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Monitor serves the state of a scan runner over HTTP.
type Monitor struct {
	runner     *scan.Runner
	symbols    *memimage.SymbolTable
	queues     []*queue.Queue
	portNumber int
	logger     *slog.Logger
	assets     http.FileSystem

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		logger: slog.New(slog.DiscardHandler),
		assets: web.Assets(web.DevMode()),
	}
}

// WithAssets replaces the page served under "/".
func (m *Monitor) WithAssets(fs http.FileSystem) *Monitor {
	m.assets = fs

	return m
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// replaced by a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		m.logger.Warn("monitor port not allowed, using a random port",
			"port", portNumber)

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithLogger sets the logger used to report the server address.
func (m *Monitor) WithLogger(l *slog.Logger) *Monitor {
	if l != nil {
		m.logger = l
	}

	return m
}

// RegisterRunner registers the runner to observe and control.
func (m *Monitor) RegisterRunner(r *scan.Runner) {
	m.runner = r
}

// RegisterSymbols registers the symbol table of the running program.
func (m *Monitor) RegisterSymbols(t *memimage.SymbolTable) {
	m.symbols = t
}

// RegisterQueue registers a job queue to be shown.
func (m *Monitor) RegisterQueue(q *queue.Queue) {
	m.queues = append(m.queues, q)
}

// CreateProgressBar creates a progress bar that counts the cycles of the
// registered runner's scanner.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := newProgressBar(name, total)

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	if m.runner != nil {
		m.runner.Scanner().AcceptHook(bar)
	}

	return bar
}

// CompleteProgressBar removes a bar from the page.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Handler returns the router serving the API and the web page.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseRunner)
	r.HandleFunc("/api/continue", m.continueRunner)
	r.HandleFunc("/api/cycle", m.cycle)
	r.HandleFunc("/api/snapshot", m.snapshot)
	r.HandleFunc("/api/list_stations", m.listStations)
	r.HandleFunc("/api/station/{name}", m.listStationDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/symbols", m.listSymbols)
	r.HandleFunc("/api/image/{region}", m.dumpRegion)
	r.HandleFunc("/api/queues", m.listQueues)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(m.assets))

	return r
}

// StartServer starts serving in the background and returns the URL of the
// page.
func (m *Monitor) StartServer() (string, error) {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", fmt.Errorf("monitor: %w", err)
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	m.logger.Info("monitoring scan program", "url", url)

	go func() {
		err := http.Serve(listener, m.Handler())
		if err != nil {
			m.logger.Error("monitor stopped", "error", err)
		}
	}()

	return url, nil
}

func (m *Monitor) pauseRunner(w http.ResponseWriter, _ *http.Request) {
	m.runner.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueRunner(w http.ResponseWriter, _ *http.Request) {
	m.runner.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

type cycleRsp struct {
	Cycle  uint64 `json:"cycle"`
	Mode   string `json:"mode"`
	Paused bool   `json:"paused"`
}

func (m *Monitor) cycle(w http.ResponseWriter, _ *http.Request) {
	rsp := cycleRsp{Paused: m.runner.Paused()}

	m.runner.Inspect(func(s *scan.Scanner) {
		rsp.Cycle = s.Cycle()
		rsp.Mode = s.Mode().String()
	})

	writeJSON(w, rsp)
}

func (m *Monitor) snapshot(w http.ResponseWriter, _ *http.Request) {
	var snap scan.Snapshot

	m.runner.Inspect(func(s *scan.Scanner) {
		snap = s.Snapshot()
	})

	writeJSON(w, snap)
}

func (m *Monitor) listStations(w http.ResponseWriter, _ *http.Request) {
	names := []string{}
	for _, st := range m.runner.Scanner().Stations() {
		names = append(names, st.Name())
	}

	writeJSON(w, names)
}

func (m *Monitor) listStationDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	st := m.findStationOr404(w, name)
	if st == nil {
		return
	}

	buf := bytes.NewBuffer(nil)

	m.runner.Inspect(func(*scan.Scanner) {
		serializer := goseth.NewSerializer()
		serializer.SetRoot(st)
		serializer.SetMaxDepth(1)
		dieOnErr(serializer.Serialize(buf))
	})

	_, err := w.Write(buf.Bytes())
	dieOnErr(err)
}

type fieldReq struct {
	StationName string `json:"station_name,omitempty"`
	FieldName   string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st := m.findStationOr404(w, req.StationName)
	if st == nil {
		return
	}

	buf := bytes.NewBuffer(nil)

	m.runner.Inspect(func(*scan.Scanner) {
		serializer := goseth.NewSerializer()
		serializer.SetRoot(st)
		serializer.SetMaxDepth(1)

		err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
		if err == nil {
			err = serializer.Serialize(buf)
		}
	})

	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, err = w.Write(buf.Bytes())
	dieOnErr(err)
}

type symbolRsp struct {
	Name  string `json:"name"`
	Addr  string `json:"addr"`
	Value int    `json:"value"`
}

func (m *Monitor) listSymbols(w http.ResponseWriter, _ *http.Request) {
	rsp := []symbolRsp{}
	if m.symbols == nil {
		writeJSON(w, rsp)
		return
	}

	m.runner.Inspect(func(s *scan.Scanner) {
		for _, name := range m.symbols.Names() {
			a := m.symbols.MustLookup(name)
			rsp = append(rsp, symbolRsp{
				Name:  name,
				Addr:  a.String(),
				Value: readValue(s.Image(), a),
			})
		}
	})

	writeJSON(w, rsp)
}

func readValue(img *memimage.Image, a memimage.Addr) int {
	if a.IsByte() {
		v, err := img.ReadByte(a)
		dieOnErr(err)

		return int(v)
	}

	v, err := img.ReadBit(a)
	dieOnErr(err)

	if v {
		return 1
	}

	return 0
}

type regionRsp struct {
	Region string `json:"region"`
	Bytes  []int  `json:"bytes"`
}

func (m *Monitor) dumpRegion(w http.ResponseWriter, r *http.Request) {
	region, err := memimage.ParseRegion(mux.Vars(r)["region"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var data []byte

	m.runner.Inspect(func(s *scan.Scanner) {
		data = s.Image().Region(region)
	})

	rsp := regionRsp{Region: region.String(), Bytes: make([]int, len(data))}
	for i, b := range data {
		rsp.Bytes[i] = int(b)
	}

	writeJSON(w, rsp)
}

type queueItemRsp struct {
	Magnitude byte `json:"magnitude"`
	Tagged    bool `json:"tagged"`
}

type queueRsp struct {
	Name  string         `json:"name"`
	Len   int            `json:"len"`
	Cap   int            `json:"cap"`
	Items []queueItemRsp `json:"items"`
}

func (m *Monitor) listQueues(w http.ResponseWriter, _ *http.Request) {
	rsp := []queueRsp{}

	m.runner.Inspect(func(*scan.Scanner) {
		for _, q := range m.queues {
			qr := queueRsp{
				Name:  q.Name(),
				Len:   q.Len(),
				Cap:   q.Cap(),
				Items: []queueItemRsp{},
			}

			for _, it := range q.Items() {
				qr.Items = append(qr.Items, queueItemRsp{
					Magnitude: it.Magnitude(),
					Tagged:    it.Tagged(),
				})
			}

			rsp = append(rsp, qr)
		}
	})

	writeJSON(w, rsp)
}

func (m *Monitor) findStationOr404(
	w http.ResponseWriter,
	name string,
) station.Station {
	st, ok := m.runner.Scanner().Station(name)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Station not found"))
		dieOnErr(err)

		return nil
	}

	return st
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	rsp := make([]progressRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		b.Lock()
		rsp = append(rsp, progressRsp{
			ID:        b.ID,
			Name:      b.Name,
			StartTime: b.StartTime,
			Total:     b.Total,
			Finished:  b.Finished,
		})
		b.Unlock()
	}

	writeJSON(w, rsp)
}

type progressRsp struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
