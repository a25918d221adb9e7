package commands

import (
	"context"
	"errors"
	"time"

	"yuki/internal/platform"
	"yuki/internal/sysinfo"
)

type fakeOpener struct {
	urls []string
	err  error
}

func (f *fakeOpener) OpenURL(url string) error {
	if f.err != nil {
		return f.err
	}
	f.urls = append(f.urls, url)
	return nil
}

func (f *fakeOpener) last() string {
	if len(f.urls) == 0 {
		return ""
	}
	return f.urls[len(f.urls)-1]
}

type fakeLLM struct {
	inputs []string
	reply  string
}

func (f *fakeLLM) Generate(_ context.Context, input, _ string) string {
	f.inputs = append(f.inputs, input)
	return f.reply
}

type fakeWeather struct{ report string }

func (f fakeWeather) Report(context.Context) string { return f.report }

type fakeRegistry struct {
	apps map[string]string
}

func (f *fakeRegistry) Applications() map[string]string {
	out := map[string]string{}
	for k, v := range f.apps {
		out[k] = v
	}
	return out
}

func (f *fakeRegistry) ApplicationPath(name string) (string, bool) {
	p, ok := f.apps[name]
	return p, ok
}

func (f *fakeRegistry) AddApplication(name, path string) error {
	f.apps[name] = path
	return nil
}

func (f *fakeRegistry) RemoveApplication(name string) error {
	delete(f.apps, name)
	return nil
}

type started struct {
	path string
	args []string
}

type fakeLauncher struct {
	existing map[string]bool
	started  []started
	err      error
}

func (f *fakeLauncher) Exists(path string) bool { return f.existing[path] }

func (f *fakeLauncher) Start(path string, args ...string) error {
	if f.err != nil {
		return f.err
	}
	f.started = append(f.started, started{path, args})
	return nil
}

type fakeResolver struct {
	id  string
	err error
}

func (f fakeResolver) FirstVideo(context.Context, string) (string, error) {
	return f.id, f.err
}

type fakeInfo struct {
	fail bool
}

var errInfo = errors.New("unavailable")

func (f fakeInfo) CPUPercent(context.Context) (float64, error) {
	if f.fail {
		return 0, errInfo
	}
	return 12.34, nil
}

func (f fakeInfo) Memory(context.Context) (sysinfo.Usage, error) {
	return sysinfo.Usage{Percent: 50, UsedGB: 8, TotalGB: 16}, nil
}

func (f fakeInfo) Disk(context.Context) (sysinfo.Usage, error) {
	if f.fail {
		return sysinfo.Usage{}, errInfo
	}
	return sysinfo.Usage{Percent: 25, UsedGB: 128, TotalGB: 512}, nil
}

func (f fakeInfo) Uptime(context.Context) (time.Duration, error) {
	return 3725 * time.Second, nil
}

func (f fakeInfo) CPUCount(context.Context) (int, error) { return 8, nil }

func (f fakeInfo) TopProcesses(_ context.Context, n int) ([]sysinfo.Process, error) {
	procs := []sysinfo.Process{
		{Name: "go", CPUPercent: 90, MemoryPercent: 2},
		{Name: "chrome", CPUPercent: 30.4, MemoryPercent: 10.5},
	}
	return sysinfo.Top(procs, n), nil
}

type fakePower struct {
	done []platform.PowerAction
	err  error
}

func (f *fakePower) Do(_ context.Context, action platform.PowerAction) error {
	if f.err != nil {
		return f.err
	}
	f.done = append(f.done, action)
	return nil
}

type fakeConfirm struct {
	answer bool
	asked  []string
}

func (f *fakeConfirm) Confirm(_, text string) bool {
	f.asked = append(f.asked, text)
	return f.answer
}
