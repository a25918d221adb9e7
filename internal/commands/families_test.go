package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yuki/internal/platform"
)

func Test_Web_Handle(t *testing.T) {
	useThai(t)

	tests := []struct {
		name    string
		command string
		want    string
		url     string
	}{
		{"configured service", "เปิดเว็บ google", "เปิด google แล้วค่ะ", "https://www.google.com"},
		{"longest service wins", "open website google maps", "เปิด google maps แล้วค่ะ", "https://maps.google.com"},
		{"guessed website", "เข้าเว็บ github.com", "เปิดเว็บไซต์ github.com แล้วค่ะ", "https://github.com"},
		{"guessed website with spaces", "open website stack overflow", "เปิดเว็บไซต์ stack overflow แล้วค่ะ", "https://stackoverflow.com"},
		{"maps search", "เปิดเว็บ ค้นหา ร้านกาแฟ แผนที่", "ค้นหา ร้านกาแฟ ใน Google Maps แล้วค่ะ", "https://www.google.com/maps/search/%E0%B8%A3%E0%B9%89%E0%B8%B2%E0%B8%99%E0%B8%81%E0%B8%B2%E0%B9%81%E0%B8%9F"},
		{"youtube search", "open site youtube search lofi beats", "ค้นหา lofi beats ใน YouTube แล้วค่ะ", "https://www.youtube.com/results?search_query=lofi%20beats"},
		{"unknown", "เปิดเว็บไซต์", "ไม่เข้าใจคำสั่งเว็บค่ะ กรุณาลองใหม่อีกครั้ง", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := &fakeOpener{}
			w := NewWeb(opener, map[string]string{
				"google":      "https://www.google.com",
				"google maps": "https://maps.google.com",
			})
			require.True(t, w.Matches(tt.command))
			assert.Equal(t, tt.want, w.Handle(tt.command))
			assert.Equal(t, tt.url, opener.last())
		})
	}
}

func Test_Web_OpenFails(t *testing.T) {
	useThai(t)
	w := NewWeb(&fakeOpener{err: errors.New("no browser")}, map[string]string{"google": "https://www.google.com"})

	assert.Equal(t, "เกิดข้อผิดพลาดในการเปิด google ค่ะ", w.Handle("เปิดเว็บ google"))
	assert.Equal(t, "เกิดข้อผิดพลาดในการเปิดเว็บไซต์ pantip ค่ะ", w.Handle("เปิดเว็บ pantip"))
}

func Test_WebsiteURL(t *testing.T) {
	assert.Equal(t, "https://pantip.com", WebsiteURL("pantip"))
	assert.Equal(t, "https://sanook.com", WebsiteURL("sanook.co.th"))
	assert.Equal(t, "https://wikipedia.com", WebsiteURL("wikipedia.org"))
}

func Test_Apps_Handle(t *testing.T) {
	useThai(t)

	registry := &fakeRegistry{apps: map[string]string{
		"vscode": "/usr/bin/code",
		"Notes":  "/usr/bin/notes",
	}}
	launcher := &fakeLauncher{existing: map[string]bool{"/usr/bin/code": true, "/usr/bin/notes": true}}
	apps := NewApps(registry, launcher)
	apps.candidates = func(name string) []platform.Candidate {
		return []platform.Candidate{{Path: "/opt/" + name, Command: []string{"open", "/opt/" + name}}}
	}

	assert.True(t, apps.Matches("เปิดแอป vscode"))
	assert.False(t, apps.Matches("เปิดเพลง"))

	assert.Equal(t, "เปิด vscode แล้วค่ะ", apps.Handle("เปิดแอป vscode"))
	assert.Equal(t, started{"/usr/bin/code", nil}, launcher.started[0])

	assert.Equal(t, "เปิด Notes แล้วค่ะ", apps.Handle("open app notes"))

	assert.Equal(t, "เปิด vscode แล้วค่ะ", apps.Handle("open app code editor"))

	assert.Equal(t, "ไม่พบ calculator ในระบบค่ะ", apps.Handle("เปิดแอป เครื่องคิดเลข"))

	launcher.existing["/opt/zoom"] = true
	assert.Equal(t, "เปิด zoom แล้วค่ะ", apps.Handle("open application meeting"))
	assert.Equal(t, started{"open", []string{"/opt/zoom"}}, launcher.started[len(launcher.started)-1])

	assert.Equal(t, "ไม่เข้าใจคำสั่งเปิดแอปพลิเคชันค่ะ กรุณาลองใหม่อีกครั้ง", apps.Handle("open app xyz"))
}

func Test_Apps_MissingPathFallsBack(t *testing.T) {
	useThai(t)

	registry := &fakeRegistry{apps: map[string]string{"figma": "/gone/figma"}}
	launcher := &fakeLauncher{existing: map[string]bool{}}
	apps := NewApps(registry, launcher)
	apps.candidates = func(string) []platform.Candidate { return nil }

	assert.Equal(t, "ไม่พบ figma ในระบบค่ะ", apps.Handle("เปิดแอป figma"))
	assert.Empty(t, launcher.started)
}

func Test_Apps_StartFails(t *testing.T) {
	useThai(t)

	registry := &fakeRegistry{apps: map[string]string{"vscode": "/usr/bin/code"}}
	launcher := &fakeLauncher{existing: map[string]bool{"/usr/bin/code": true}, err: errors.New("denied")}
	apps := NewApps(registry, launcher)

	assert.Equal(t, "เกิดข้อผิดพลาดในการเปิด vscode ค่ะ", apps.Handle("เปิดแอป vscode"))
}

func Test_Apps_AddRemove(t *testing.T) {
	registry := &fakeRegistry{apps: map[string]string{}}
	apps := NewApps(registry, &fakeLauncher{})

	assert.True(t, apps.Add("obs", "/usr/bin/obs"))
	assert.Equal(t, []string{"obs"}, apps.List())
	assert.True(t, apps.Remove("obs"))
	assert.False(t, apps.Remove("obs"))
	assert.Empty(t, apps.List())
}

func Test_Media_Handle(t *testing.T) {
	useThai(t)

	tests := []struct {
		name     string
		command  string
		resolver VideoResolver
		want     string
		url      string
	}{
		{"music youtube", "เล่นเพลง ed sheeran", fakeResolver{id: "abcdefghijk"}, "เล่น ed sheeran บน YouTube แล้วค่ะ", "https://www.youtube.com/watch?v=abcdefghijk"},
		{"music fallback", "play music lofi", fakeResolver{err: errors.New("blocked")}, "ค้นหา lofi บน YouTube แล้วค่ะ", "https://www.youtube.com/results?search_query=lofi"},
		{"music no resolver", "ฟังเพลง ลูกทุ่ง", nil, "ค้นหา ลูกทุ่ง บน YouTube แล้วค่ะ", "https://www.youtube.com/results?search_query=%E0%B8%A5%E0%B8%B9%E0%B8%81%E0%B8%97%E0%B8%B8%E0%B9%88%E0%B8%87"},
		{"music spotify", "play music taylor swift spotify", nil, "ค้นหา taylor swift บน Spotify แล้วค่ะ", "https://open.spotify.com/search/taylor%20swift"},
		{"music no query", "เล่นเพลง", nil, "กรุณาระบุเพลงหรือศิลปินที่ต้องการฟังค่ะ", ""},
		{"open music", "เปิดเพลง jazz", nil, "ค้นหา jazz บน YouTube แล้วค่ะ", "https://www.youtube.com/results?search_query=jazz"},
		{"playlist", "play music chill playlist", nil, "ค้นหาเพลย์ลิสต์ chill แล้วค่ะ", "https://www.youtube.com/results?search_query=chill+playlist"},
		{"song by artist", "play music yellow by coldplay", nil, "ค้นหา yellow coldplay บน YouTube แล้วค่ะ", "https://www.youtube.com/results?search_query=yellow%20coldplay"},
		{"artist", "play music artist bodyslam", nil, "ค้นหา bodyslam บน YouTube แล้วค่ะ", "https://www.youtube.com/results?search_query=bodyslam"},
		{"video", "watch video cats", fakeResolver{id: "catcatcat01"}, "เล่น cats บน YouTube แล้วค่ะ", "https://www.youtube.com/watch?v=catcatcat01"},
		{"video netflix", "open video dark netflix", nil, "ค้นหา dark บน Netflix แล้วค่ะ", "https://www.netflix.com/search?q=dark"},
		{"video no query", "ดูวิดีโอ", nil, "กรุณาระบุวิดีโอที่ต้องการดูค่ะ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := &fakeOpener{}
			m := NewMedia(opener, tt.resolver)
			require.True(t, m.Matches(tt.command))
			assert.Equal(t, tt.want, m.Handle(context.Background(), tt.command))
			assert.Equal(t, tt.url, opener.last())
		})
	}
}

func Test_Media_StreamingAndGeneral(t *testing.T) {
	useThai(t)
	opener := &fakeOpener{}
	m := NewMedia(opener, nil)
	ctx := context.Background()

	assert.Equal(t, "เปิด netflix แล้วค่ะ", m.Handle(ctx, "open netflix"))
	assert.Equal(t, "https://www.netflix.com", opener.last())

	assert.Equal(t, "เปิด YouTube แล้วค่ะ", m.Handle(ctx, "ความบันเทิง"))
	assert.Equal(t, "https://www.youtube.com", opener.last())

	assert.Equal(t, "ไม่เข้าใจคำสั่งสื่อค่ะ กรุณาลองใหม่อีกครั้ง", m.Handle(ctx, "อะไรก็ได้"))
}

func Test_System_Info(t *testing.T) {
	useThai(t)
	s := NewSystem(fakeInfo{}, &fakePower{}, nil)
	ctx := context.Background()

	assert.Equal(t, "การใช้พื้นที่ดิสก์: 25.0% (128.0GB จาก 512.0GB)", s.Handle(ctx, "disk usage"))
	assert.Equal(t, "ระบบทำงานมาแล้ว 1 ชั่วโมง 2 นาที 5 วินาที", s.Handle(ctx, "uptime"))
	assert.Equal(t, "ข้อมูลระบบ: CPU: 8 cores, RAM: 16.0GB, Disk: 512.0GB", s.Handle(ctx, "ข้อมูลระบบ"))
	assert.Equal(t,
		"โปรเซสที่ใช้ทรัพยากรมากที่สุด:\n- go: CPU 90.0%, RAM 2.0%\n- chrome: CPU 30.4%, RAM 10.5%\n",
		s.Handle(ctx, "list process"))
}

func Test_System_InfoFailures(t *testing.T) {
	useThai(t)
	s := NewSystem(fakeInfo{fail: true}, &fakePower{}, nil)
	ctx := context.Background()

	assert.Equal(t, "ไม่สามารถดึงข้อมูลการใช้ทรัพยากรระบบได้ค่ะ", s.Handle(ctx, "cpu"))
	assert.Equal(t, "ไม่สามารถดึงข้อมูลการใช้พื้นที่ดิสก์ได้ค่ะ", s.Handle(ctx, "storage"))
	assert.Equal(t, "ไม่สามารถดึงข้อมูลระบบได้ค่ะ", s.Handle(ctx, "system status"))
}

func Test_System_PowerConfirmed(t *testing.T) {
	useThai(t)
	power := &fakePower{}
	confirm := &fakeConfirm{answer: true}
	s := NewSystem(fakeInfo{}, power, confirm)
	ctx := context.Background()

	assert.Equal(t, "กำลังปิดระบบค่ะ", s.Handle(ctx, "ปิดเครื่อง"))
	assert.Equal(t, "กำลังรีสตาร์ทระบบค่ะ", s.Handle(ctx, "reboot the computer"))
	assert.Equal(t, "กำลังเข้าสู่โหมดสลีปค่ะ", s.Handle(ctx, "sleep the machine"))

	assert.Equal(t, []platform.PowerAction{platform.PowerShutdown, platform.PowerRestart, platform.PowerSleep}, power.done)
	assert.Len(t, confirm.asked, 3)
}

func Test_System_PowerDeclined(t *testing.T) {
	useThai(t)
	power := &fakePower{}
	s := NewSystem(fakeInfo{}, power, &fakeConfirm{answer: false})

	assert.Equal(t, "ยกเลิกคำสั่งแล้วค่ะ", s.Handle(context.Background(), "restart the computer"))
	assert.Empty(t, power.done)
}

func Test_System_WithoutConfirmerRefusesPower(t *testing.T) {
	useThai(t)
	power := &fakePower{}
	s := NewSystem(fakeInfo{}, power, nil)

	assert.Equal(t, "ยกเลิกคำสั่งแล้วค่ะ", s.Handle(context.Background(), "shut down the computer"))
	assert.Empty(t, power.done)
}

func Test_System_PowerFails(t *testing.T) {
	useThai(t)
	s := NewSystem(fakeInfo{}, &fakePower{err: errors.New("not permitted")}, &fakeConfirm{answer: true})

	assert.Equal(t, "ไม่สามารถเข้าสู่โหมดสลีปได้ค่ะ", s.Handle(context.Background(), "สลีป"))
}

func Test_System_ProcessAndFile(t *testing.T) {
	useThai(t)
	s := NewSystem(fakeInfo{}, &fakePower{}, nil)
	ctx := context.Background()

	assert.Equal(t, "การฆ่าโปรเซสต้องระบุชื่อโปรเซสที่ต้องการค่ะ", s.Handle(ctx, "kill process"))
	assert.Equal(t, "การฆ่าโปรเซสต้องระบุชื่อโปรเซสที่ต้องการค่ะ", s.Handle(ctx, "ฆ่าโปรเซส"))
	assert.Equal(t, "การสร้างไฟล์หรือโฟลเดอร์ต้องระบุชื่อและตำแหน่งค่ะ", s.Handle(ctx, "create file"))
	assert.Equal(t, "การลบไฟล์หรือโฟลเดอร์ต้องระบุชื่อและตำแหน่งค่ะ", s.Handle(ctx, "ลบไฟล์"))
	assert.Equal(t, "ไม่เข้าใจคำสั่งระบบค่ะ กรุณาลองใหม่อีกครั้ง", s.Handle(ctx, "hello"))
}

func Test_System_Matches(t *testing.T) {
	s := NewSystem(fakeInfo{}, &fakePower{}, nil)

	tests := []struct {
		command string
		want    bool
	}{
		{"how much RAM", true},
		{"cpu usage", true},
		{"system status", true},
		{"disk", true},
		{"restart the computer", true},
		{"sleep the machine", true},
		{"shut down the pc", true},
		{"list processes", true},
		{"kill process chrome", true},
		{"create a file", true},
		{"ปิดเครื่อง", true},
		{"สลีป", true},
		{"ข้อมูลระบบ", true},
		{"ลบไฟล์ test.txt", true},
		{"what programming language should i learn", false},
		{"ramen recipe please", false},
		{"i cannot sleep tonight", false},
		{"should i restart my career", false},
		{"how does the brain process language", false},
		{"weekend plans", false},
		{"task for today", false},
		{"discord or slack", false},
		{"ฉันอยากปิดเครื่องดูดฝุ่น", false},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Matches(tt.command))
		})
	}
}
