package commands

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"yuki/internal/i18n"
	"yuki/internal/platform"
	"yuki/internal/sysinfo"
	"yuki/internal/textproc"
)

// English system commands must name the subject as a whole word; power
// and file commands must lead with the verb.
var (
	infoPattern    = regexp.MustCompile(`(?i)\b(system (info|information|status)|cpu|ram|memory|disk|storage|uptime)\b`)
	controlPattern = regexp.MustCompile(`(?i)^(shut ?down|restart|reboot|sleep|hibernate)( the)? (computer|machine|system|pc|mac|laptop)\b`)
	processPattern = regexp.MustCompile(`(?i)^((list|show) (the )?(top )?process(es)?|(kill|end|terminate) (the |a )?process)\b`)
	filePattern    = regexp.MustCompile(`(?i)^(create|delete|copy|move) (a |the )?(file|folder|directory)\b`)
)

// Thai system commands are matched at the start of the command only.
var (
	thaiInfo    = []string{"ข้อมูลระบบ", "สถานะระบบ", "เวลาทำงาน"}
	thaiControl = []string{"ปิดเครื่อง", "รีสตาร์ท", "รีบูต", "สลีป", "ไฮเบอร์เนต"}
	thaiProcess = []string{"โปรเซส", "ดูโปรเซส", "ฆ่าโปรเซส"}
	thaiFile    = []string{"สร้างไฟล์", "สร้างโฟลเดอร์", "ลบไฟล์", "ลบโฟลเดอร์"}
)

type systemKind int

const (
	kindNone systemKind = iota
	kindInfo
	kindControl
	kindProcess
	kindFile
)

func classify(command string) systemKind {
	switch {
	case controlPattern.MatchString(command) || hasAnyPrefix(command, thaiControl):
		return kindControl
	case processPattern.MatchString(command) || hasAnyPrefix(command, thaiProcess):
		return kindProcess
	case filePattern.MatchString(command) || hasAnyPrefix(command, thaiFile):
		return kindFile
	case infoPattern.MatchString(command) || hasAnyPrefix(command, thaiInfo):
		return kindInfo
	}
	return kindNone
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// SystemInfo reads host statistics.
type SystemInfo interface {
	CPUPercent(ctx context.Context) (float64, error)
	Memory(ctx context.Context) (sysinfo.Usage, error)
	Disk(ctx context.Context) (sysinfo.Usage, error)
	Uptime(ctx context.Context) (time.Duration, error)
	CPUCount(ctx context.Context) (int, error)
	TopProcesses(ctx context.Context, n int) ([]sysinfo.Process, error)
}

// PowerController changes the machine power state.
type PowerController interface {
	Do(ctx context.Context, action platform.PowerAction) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(title, text string) bool
}

// System reports host status and controls power.
type System struct {
	info    SystemInfo
	power   PowerController
	confirm Confirmer
}

// NewSystem creates the system family. Without a confirmer every power
// action is refused.
func NewSystem(info SystemInfo, power PowerController, confirm Confirmer) *System {
	return &System{info: info, power: power, confirm: confirm}
}

// Matches reports whether command is an explicit system command.
func (s *System) Matches(command string) bool {
	return classify(strings.ToLower(strings.TrimSpace(command))) != kindNone
}

// Handle processes a system command.
func (s *System) Handle(ctx context.Context, command string) string {
	lower := strings.ToLower(strings.TrimSpace(command))

	switch classify(lower) {
	case kindInfo:
		return s.handleInfo(ctx, lower)
	case kindControl:
		return s.handleControl(ctx, lower)
	case kindProcess:
		return s.handleProcess(ctx, lower)
	case kindFile:
		return handleFile(lower)
	}
	return i18n.T("sys_unknown")
}

func (s *System) handleInfo(ctx context.Context, command string) string {
	switch {
	case textproc.ContainsAny(command, []string{"cpu", "memory", "ram"}):
		return s.Resources(ctx)
	case textproc.ContainsAny(command, []string{"disk", "storage"}):
		return s.DiskUsage(ctx)
	case textproc.ContainsAny(command, []string{"uptime", "เวลาทำงาน"}):
		return s.Uptime(ctx)
	}
	return s.FullInfo(ctx)
}

// Resources reports CPU and memory usage.
func (s *System) Resources(ctx context.Context) string {
	cpuPct, err := s.info.CPUPercent(ctx)
	if err != nil {
		slog.Error("error getting system resources", "error", err)
		return i18n.T("sys_resources_failed")
	}
	mem, err := s.info.Memory(ctx)
	if err != nil {
		slog.Error("error getting system resources", "error", err)
		return i18n.T("sys_resources_failed")
	}
	return i18n.Tf("sys_resources", cpuPct, mem.Percent, mem.UsedGB, mem.TotalGB)
}

// DiskUsage reports disk usage.
func (s *System) DiskUsage(ctx context.Context) string {
	d, err := s.info.Disk(ctx)
	if err != nil {
		slog.Error("error getting disk usage", "error", err)
		return i18n.T("sys_disk_failed")
	}
	return i18n.Tf("sys_disk", d.Percent, d.UsedGB, d.TotalGB)
}

// Uptime reports time since boot.
func (s *System) Uptime(ctx context.Context) string {
	up, err := s.info.Uptime(ctx)
	if err != nil {
		slog.Error("error getting uptime", "error", err)
		return i18n.T("sys_uptime_failed")
	}
	return i18n.Tf("sys_uptime", textproc.FormatThaiTime(int(up.Seconds())))
}

// FullInfo reports core count, memory and disk size.
func (s *System) FullInfo(ctx context.Context) string {
	cores, err := s.info.CPUCount(ctx)
	if err != nil {
		slog.Error("error getting system info", "error", err)
		return i18n.T("sys_info_failed")
	}
	mem, err := s.info.Memory(ctx)
	if err != nil {
		slog.Error("error getting system info", "error", err)
		return i18n.T("sys_info_failed")
	}
	d, err := s.info.Disk(ctx)
	if err != nil {
		slog.Error("error getting system info", "error", err)
		return i18n.T("sys_info_failed")
	}
	return i18n.Tf("sys_info", cores, mem.TotalGB, d.TotalGB)
}

func (s *System) handleControl(ctx context.Context, command string) string {
	switch {
	case textproc.ContainsAny(command, []string{"shutdown", "shut down", "ปิดเครื่อง"}):
		return s.powerAction(ctx, platform.PowerShutdown, "sys_confirm_shutdown", "sys_shutdown", "sys_shutdown_failed")
	case textproc.ContainsAny(command, []string{"restart", "reboot", "รีสตาร์ท", "รีบูต"}):
		return s.powerAction(ctx, platform.PowerRestart, "sys_confirm_restart", "sys_restart", "sys_restart_failed")
	case textproc.ContainsAny(command, []string{"sleep", "สลีป"}):
		return s.powerAction(ctx, platform.PowerSleep, "sys_confirm_sleep", "sys_sleep", "sys_sleep_failed")
	}
	return i18n.T("sys_control_unknown")
}

func (s *System) powerAction(ctx context.Context, action platform.PowerAction, question, done, failed string) string {
	if s.confirm == nil || !s.confirm.Confirm(i18n.T("sys_confirm_title"), i18n.T(question)) {
		slog.Info("power action cancelled", "action", action)
		return i18n.T("sys_cancelled")
	}
	if err := s.power.Do(ctx, action); err != nil {
		slog.Error("power action failed", "action", action, "error", err)
		return i18n.T(failed)
	}
	return i18n.T(done)
}

func (s *System) handleProcess(ctx context.Context, command string) string {
	switch {
	case hasAnyPrefix(command, []string{"kill", "end", "terminate", "ฆ่า"}):
		return i18n.T("sys_kill")
	case textproc.ContainsAny(command, []string{"process", "โปรเซส"}):
		return s.Processes(ctx)
	}
	return i18n.T("sys_process_unknown")
}

// Processes lists the five processes with the highest CPU usage.
func (s *System) Processes(ctx context.Context) string {
	procs, err := s.info.TopProcesses(ctx, 5)
	if err != nil {
		slog.Error("error listing processes", "error", err)
		return i18n.T("sys_process_failed")
	}
	var b strings.Builder
	b.WriteString(i18n.T("sys_process_header"))
	b.WriteString("\n")
	for _, p := range procs {
		fmt.Fprintf(&b, "- %s: CPU %.1f%%, RAM %.1f%%\n", p.Name, p.CPUPercent, p.MemoryPercent)
	}
	return b.String()
}

func handleFile(command string) string {
	switch {
	case textproc.ContainsAny(command, []string{"create", "สร้าง"}):
		return i18n.T("sys_file_create")
	case textproc.ContainsAny(command, []string{"delete", "ลบ"}):
		return i18n.T("sys_file_delete")
	}
	return i18n.T("sys_file_unknown")
}
