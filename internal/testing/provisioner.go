package testing

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/imamik/mrpctl/internal/platform/mrp"
)

// FakeProvisioner is an in-memory provisioner. Uploaded images and
// preseeds are stored and returned by later list requests.
type FakeProvisioner struct {
	server *httptest.Server

	mu            sync.Mutex
	nextID        int64
	machines      []mrp.Machine
	interfaces    map[int64][]mrp.Interface
	images        []mrp.Image
	imageContent  map[int64][]byte
	preseeds      []mrp.Preseed
	machineStates map[int64]string
	requests      []string
}

// NewFakeProvisioner starts a fake provisioner that is closed when the test
// ends.
func NewFakeProvisioner(t testing.TB) *FakeProvisioner {
	t.Helper()

	f := &FakeProvisioner{
		nextID:        100,
		interfaces:    make(map[int64][]mrp.Interface),
		imageContent:  make(map[int64][]byte),
		machineStates: make(map[int64]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/machine", f.listMachines)
	mux.HandleFunc("PUT /api/v1/machine/{id}", f.updateMachine)
	mux.HandleFunc("GET /api/v1/machine/{id}/interface", f.listInterfaces)
	mux.HandleFunc("POST /api/v1/machine/{id}/state", f.setState)
	mux.HandleFunc("GET /api/v1/image", f.listImages)
	mux.HandleFunc("POST /api/v1/image", f.createImage)
	mux.HandleFunc("GET /api/v1/preseed", f.listPreseeds)
	mux.HandleFunc("POST /api/v1/preseed", f.createPreseed)

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the base URL of the fake.
func (f *FakeProvisioner) URL() string {
	return f.server.URL
}

// AddMachine registers a machine with its interfaces.
func (f *FakeProvisioner) AddMachine(m mrp.Machine, ifaces ...mrp.Interface) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.machines = append(f.machines, m)
	f.interfaces[m.ID] = ifaces
}

// Requests returns "METHOD /path" for every request received, in order.
func (f *FakeProvisioner) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// Count returns how many requests matched "METHOD /path".
func (f *FakeProvisioner) Count(request string) int {
	n := 0
	for _, r := range f.Requests() {
		if r == request {
			n++
		}
	}
	return n
}

// ImageContent returns the bytes uploaded for image id.
func (f *FakeProvisioner) ImageContent(id int64) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.imageContent[id]
}

// MachineState returns the last state requested for machine id.
func (f *FakeProvisioner) MachineState(id int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.machineStates[id]
}

func (f *FakeProvisioner) listMachines(w http.ResponseWriter, r *http.Request) {
	name := nameFromQuery(r.URL.Query().Get("q"))

	f.mu.Lock()
	matches := []mrp.Machine{}
	for _, m := range f.machines {
		if name == "" || m.Name == name {
			matches = append(matches, m)
		}
	}
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, matches)
}

func (f *FakeProvisioner) updateMachine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var params map[string]any
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.machines {
		if f.machines[i].ID != id {
			continue
		}
		m := &f.machines[i]
		if v, ok := params["kernel_id"].(float64); ok {
			m.KernelID = int64Ptr(int64(v))
		}
		if v, ok := params["initrd_id"].(float64); ok {
			m.InitrdID = int64Ptr(int64(v))
		}
		if v, ok := params["preseed_id"].(float64); ok {
			m.PreseedID = int64Ptr(int64(v))
		}
		if v, ok := params["subarch"].(string); ok {
			m.Subarch = v
		}
		if v, ok := params["netboot_enabled"].(bool); ok {
			m.NetbootEnabled = v
		}
		if v, ok := params["kernel_opts"].(string); ok {
			m.KernelOpts = v
		}
		writeJSON(w, http.StatusOK, m)
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "machine not found"})
}

func (f *FakeProvisioner) listInterfaces(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	f.mu.Lock()
	ifaces := append([]mrp.Interface{}, f.interfaces[id]...)
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, ifaces)
}

func (f *FakeProvisioner) setState(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var body struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	f.mu.Lock()
	f.machineStates[id] = body.State
	f.mu.Unlock()

	writeJSON(w, http.StatusAccepted, map[string]any{"id": id, "state": body.State})
}

func (f *FakeProvisioner) listImages(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	images := append([]mrp.Image{}, f.images...)
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, images)
}

func (f *FakeProvisioner) createImage(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "file missing"})
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	var meta struct {
		Description string `json:"description"`
		Type        string `json:"type"`
		Arch        string `json:"arch"`
		KnownGood   bool   `json:"known_good"`
		Public      bool   `json:"public"`
	}
	if err := json.Unmarshal([]byte(r.FormValue("q")), &meta); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid metadata"})
		return
	}

	f.mu.Lock()
	f.nextID++
	img := mrp.Image{
		ID:          f.nextID,
		Name:        header.Filename,
		Description: meta.Description,
		Type:        meta.Type,
		Arch:        meta.Arch,
		KnownGood:   meta.KnownGood,
		Public:      meta.Public,
	}
	f.images = append(f.images, img)
	f.imageContent[img.ID] = content
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, img)
}

func (f *FakeProvisioner) listPreseeds(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	preseeds := append([]mrp.Preseed{}, f.preseeds...)
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, preseeds)
}

func (f *FakeProvisioner) createPreseed(w http.ResponseWriter, r *http.Request) {
	var p mrp.Preseed
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	f.mu.Lock()
	f.nextID++
	p.ID = f.nextID
	f.preseeds = append(f.preseeds, p)
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, p)
}

// nameFromQuery extracts the value of a `(= name "x")` filter.
func nameFromQuery(q string) string {
	rest, ok := strings.CutPrefix(q, "(= name ")
	if !ok {
		return ""
	}
	name, err := strconv.Unquote(strings.TrimSuffix(rest, ")"))
	if err != nil {
		return ""
	}
	return name
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "invalid id"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func int64Ptr(v int64) *int64 { return &v }
