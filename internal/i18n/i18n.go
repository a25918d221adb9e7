// Package i18n provides the reply catalogue in Thai and English.
package i18n

import (
	"fmt"
	"sync"
)

// Language represents a reply language.
type Language string

const (
	TH Language = "th"
	EN Language = "en"
)

var (
	mu      sync.RWMutex
	current = TH // Default language
)

// Translations for all supported languages.
var translations = map[Language]map[string]string{
	TH: {
		// App
		"app_name":    "Yuki",
		"app_tooltip": "Yuki - ผู้ช่วยเสียงภาษาไทย",
		"welcome":     "ยูกิพร้อมใช้งานแล้วค่ะ เรียกชื่อยูกิเพื่อเริ่มต้นใช้งาน",
		"farewell":    "ยูกิปิดตัวลงแล้วค่ะ ขอบคุณที่ใช้งาน",
		"you_said":    "คุณพูดว่า",
		"yuki_said":   "ยูกิ",
		"chat_intro":  "พิมพ์ข้อความถึงยูกิ (exit เพื่อออก)",

		// Tray menu
		"tray_ready":              "พร้อมใช้งาน",
		"tray_listening":          "กำลังฟัง...",
		"tray_processing":         "กำลังประมวลผล...",
		"tray_speaking":           "กำลังพูด...",
		"tray_notifications":      "การแจ้งเตือน",
		"tray_notifications_hint": "แสดงการแจ้งเตือน",
		"tray_push_to_talk":       "กดเพื่อพูด",
		"tray_push_to_talk_hint":  "ประโยคถัดไปจะถูกส่งถึงยูกิ",
		"tray_hotkey":             "ปุ่มลัด: %s",
		"tray_hotkey_hint":        "เปลี่ยนปุ่มลัดกดเพื่อพูด",
		"hotkey_changed":          "ตั้งปุ่มลัดเป็น %s แล้วค่ะ",
		"tray_quit":               "ออก",
		"tray_quit_hint":          "ปิดยูกิ",

		// Notifications
		"notify_ready": "ยูกิพร้อมใช้งาน",
		"notify_heard": "ได้ยินว่า",
		"notify_error": "ข้อผิดพลาด",

		// Wake word
		"wake_1":        "ค่ะ ยูกิอยู่นี่ค่ะ",
		"wake_2":        "เรียกใช้ยูกิได้เลยค่ะ",
		"wake_3":        "ยูกิพร้อมช่วยเหลือค่ะ",
		"wake_4":        "นี่!! ตั้งใจแกล้งกันรึป่าวคะ?",
		"wake_5":        "แบบนี้แกล้งกันชัด ๆ เลย!!!",
		"wake_overflow": "ถ้าไม่อยากคุยกับยูกิแล้วให้พูดว่า 'ยูกิ shutdown' นะคะ มาเรียกแล้วไม่พูดแบบนี้ยูกิก็เสียใจ",

		// Response templates
		"greeting":        "สวัสดีค่ะ มีอะไรให้ช่วยไหมคะ?",
		"name":            "ฉันคือผู้ช่วยอัจฉริยะของคุณค่ะ",
		"unknown_command": "ขอโทษค่ะ ฉันไม่เข้าใจที่คุณพูด",
		"no_command":      "กรุณาพูดคำสั่งที่ต้องการค่ะ",
		"no_query":        "กรุณาระบุสิ่งที่ต้องการค้นหาค่ะ",
		"error":           "เกิดข้อผิดพลาดในการประมวลผลคำสั่งค่ะ",

		// Built-in actions
		"time_now":       "ขณะนี้เวลา %d นาฬิกา %d นาที %d วินาที",
		"shutdown":       "ยูกิกำลังปิดตัวลงค่ะ",
		"weather_no_key": "ขออภัยค่ะ ไม่สามารถดึงข้อมูลสภาพอากาศได้ เนื่องจากไม่มี API key",
		"weather_report": "อุณหภูมิปัจจุบันในประเทศไทยคือ %v องศาเซลเซียส และสภาพอากาศ %s ค่ะ",
		"weather_failed": "ขออภัยค่ะ ไม่สามารถดึงข้อมูลสภาพอากาศได้",
		"action_unknown": "ขออภัยค่ะ ไม่สามารถเปิด %s ได้",
		"action_failed":  "ขออภัยค่ะ เกิดข้อผิดพลาดในการเปิดเว็บไซต์",
		"search_google":  "ค้นหา %s บน Google แล้วค่ะ",

		// Shared
		"opened":      "เปิด %s แล้วค่ะ",
		"open_failed": "เกิดข้อผิดพลาดในการเปิด %s ค่ะ",

		// Web
		"web_unknown":        "ไม่เข้าใจคำสั่งเว็บค่ะ กรุณาลองใหม่อีกครั้ง",
		"web_search_done":    "ค้นหา '%s' ใน %s แล้วค่ะ",
		"web_search_failed":  "เกิดข้อผิดพลาดในการค้นหาค่ะ",
		"web_site_missing":   "กรุณาระบุชื่อเว็บไซต์ที่ต้องการเปิดค่ะ",
		"web_site_opened":    "เปิดเว็บไซต์ %s แล้วค่ะ",
		"web_site_failed":    "เกิดข้อผิดพลาดในการเปิดเว็บไซต์ %s ค่ะ",
		"web_maps_done":      "ค้นหา %s ใน Google Maps แล้วค่ะ",
		"web_maps_failed":    "เกิดข้อผิดพลาดในการค้นหาใน Google Maps ค่ะ",
		"web_youtube_done":   "ค้นหา %s ใน YouTube แล้วค่ะ",
		"web_youtube_failed": "เกิดข้อผิดพลาดในการค้นหาใน YouTube ค่ะ",

		// Apps
		"app_unknown":    "ไม่เข้าใจคำสั่งเปิดแอปพลิเคชันค่ะ กรุณาลองใหม่อีกครั้ง",
		"app_not_found":  "ไม่พบ %s ในระบบค่ะ",
		"app_cannot_run": "ไม่สามารถเปิด %s ได้ค่ะ",

		// Media
		"media_unknown":          "ไม่เข้าใจคำสั่งสื่อค่ะ กรุณาลองใหม่อีกครั้ง",
		"media_no_song":          "กรุณาระบุเพลงหรือศิลปินที่ต้องการฟังค่ะ",
		"media_no_video":         "กรุณาระบุวิดีโอที่ต้องการดูค่ะ",
		"media_youtube_played":   "เล่น %s บน YouTube แล้วค่ะ",
		"media_youtube_searched": "ค้นหา %s บน YouTube แล้วค่ะ",
		"media_youtube_failed":   "เกิดข้อผิดพลาดในการเล่นบน YouTube ค่ะ",
		"media_youtube_opened":   "เปิด YouTube แล้วค่ะ",
		"media_spotify_searched": "ค้นหา %s บน Spotify แล้วค่ะ",
		"media_spotify_failed":   "เกิดข้อผิดพลาดในการเล่นบน Spotify ค่ะ",
		"media_netflix_searched": "ค้นหา %s บน Netflix แล้วค่ะ",
		"media_netflix_failed":   "เกิดข้อผิดพลาดในการค้นหาบน Netflix ค่ะ",
		"media_streaming_none":   "ไม่เข้าใจคำสั่งบริการสตรีมมิ่งค่ะ",
		"media_playlist":         "ค้นหาเพลย์ลิสต์ %s แล้วค่ะ",
		"media_playlist_failed":  "เกิดข้อผิดพลาดในการเปิดเพลย์ลิสต์ค่ะ",

		// System
		"sys_unknown":          "ไม่เข้าใจคำสั่งระบบค่ะ กรุณาลองใหม่อีกครั้ง",
		"sys_resources":        "การใช้ CPU: %.1f%% การใช้ RAM: %.1f%% (%.1fGB จาก %.1fGB)",
		"sys_resources_failed": "ไม่สามารถดึงข้อมูลการใช้ทรัพยากรระบบได้ค่ะ",
		"sys_disk":             "การใช้พื้นที่ดิสก์: %.1f%% (%.1fGB จาก %.1fGB)",
		"sys_disk_failed":      "ไม่สามารถดึงข้อมูลการใช้พื้นที่ดิสก์ได้ค่ะ",
		"sys_uptime":           "ระบบทำงานมาแล้ว %s",
		"sys_uptime_failed":    "ไม่สามารถดึงข้อมูลเวลาทำงานของระบบได้ค่ะ",
		"sys_info":             "ข้อมูลระบบ: CPU: %d cores, RAM: %.1fGB, Disk: %.1fGB",
		"sys_info_failed":      "ไม่สามารถดึงข้อมูลระบบได้ค่ะ",
		"sys_shutdown":         "กำลังปิดระบบค่ะ",
		"sys_shutdown_failed":  "ไม่สามารถปิดระบบได้ค่ะ",
		"sys_restart":          "กำลังรีสตาร์ทระบบค่ะ",
		"sys_restart_failed":   "ไม่สามารถรีสตาร์ทระบบได้ค่ะ",
		"sys_sleep":            "กำลังเข้าสู่โหมดสลีปค่ะ",
		"sys_sleep_failed":     "ไม่สามารถเข้าสู่โหมดสลีปได้ค่ะ",
		"sys_control_unknown":  "ไม่เข้าใจคำสั่งควบคุมระบบค่ะ",
		"sys_cancelled":        "ยกเลิกคำสั่งแล้วค่ะ",
		"sys_confirm_title":    "ยืนยันคำสั่งระบบ",
		"sys_confirm_shutdown": "ต้องการปิดเครื่องตอนนี้หรือไม่?",
		"sys_confirm_restart":  "ต้องการรีสตาร์ทเครื่องตอนนี้หรือไม่?",
		"sys_confirm_sleep":    "ต้องการเข้าสู่โหมดสลีปตอนนี้หรือไม่?",
		"sys_kill":             "การฆ่าโปรเซสต้องระบุชื่อโปรเซสที่ต้องการค่ะ",
		"sys_process_header":   "โปรเซสที่ใช้ทรัพยากรมากที่สุด:",
		"sys_process_failed":   "ไม่สามารถแสดงรายการโปรเซสได้ค่ะ",
		"sys_process_unknown":  "ไม่เข้าใจคำสั่งจัดการโปรเซสค่ะ",
		"sys_file_create":      "การสร้างไฟล์หรือโฟลเดอร์ต้องระบุชื่อและตำแหน่งค่ะ",
		"sys_file_delete":      "การลบไฟล์หรือโฟลเดอร์ต้องระบุชื่อและตำแหน่งค่ะ",
		"sys_file_unknown":     "ไม่เข้าใจคำสั่งจัดการไฟล์ค่ะ",

		// LLM
		"llm_unreachable":   "ขออภัยค่ะ ไม่สามารถเชื่อมต่อกับระบบ AI ได้",
		"llm_failed":        "ขออภัยค่ะ เกิดข้อผิดพลาดในการประมวลผลคำตอบ",
		"llm_ollama_failed": "ขออภัยค่ะ ไม่สามารถเชื่อมต่อกับ Ollama ได้",
		"llm_cloud_failed":  "ขออภัยค่ะ ไม่สามารถเชื่อมต่อกับ cloud API ได้",
		"fallback_greeting": "สวัสดีค่ะ ยูกิยินดีที่ได้รู้จักคุณ!",
		"fallback_name":     "ฉันชื่อยูกิค่ะ เป็นผู้ช่วย AI ที่พร้อมช่วยเหลือคุณ!",
		"fallback_help":     "ยูกิสามารถช่วยคุณได้หลายอย่างค่ะ เช่น เปิดแอปพลิเคชัน เปิดเว็บไซต์ เล่นเพลง หรือตอบคำถามต่างๆ",
		"fallback_thanks":   "ยินดีค่ะ ยูกิยินดีช่วยเหลือคุณเสมอ!",
		"fallback_food":     "อาหารไทยมีหลากหลายและอร่อยมากค่ะ เช่น ต้มยำกุ้ง ผัดไทย ส้มตำ แกงเขียวหวาน ลาบ น้ำพริก และข้าวผัดกุ้ง",
		"fallback_thailand": "ประเทศไทยเป็นประเทศที่สวยงามในเอเชียตะวันออกเฉียงใต้ มีวัฒนธรรมที่หลากหลาย อาหารอร่อย และผู้คนเป็นมิตรค่ะ",
		"fallback_unknown":  "ขออภัยค่ะ ยูกิยังไม่เข้าใจคำถามนี้ แต่ยูกิสามารถช่วยคุณเปิดแอปพลิเคชัน เปิดเว็บไซต์ หรือเล่นเพลงได้ค่ะ",

		// Errors
		"error_model_not_downloaded": "ยังไม่ได้ดาวน์โหลดโมเดลเสียง ใช้คำสั่ง yuki models download",
		"error_recording":            "ไมโครโฟนมีปัญหา",
		"error_recognition":          "ถอดเสียงไม่สำเร็จ",
		"error_hotkey_register":      "ไม่สามารถลงทะเบียนปุ่มลัดได้",
	},

	EN: {
		// App
		"app_name":    "Yuki",
		"app_tooltip": "Yuki - Thai voice assistant",
		"welcome":     "Yuki is ready. Call Yuki by name to begin.",
		"farewell":    "Yuki is shutting down. Thank you for using Yuki.",
		"you_said":    "You said",
		"yuki_said":   "Yuki",
		"chat_intro":  "Type a message for Yuki (exit to quit)",

		// Tray menu
		"tray_ready":              "Ready",
		"tray_listening":          "Listening...",
		"tray_processing":         "Processing...",
		"tray_speaking":           "Speaking...",
		"tray_notifications":      "Notifications",
		"tray_notifications_hint": "Show notifications",
		"tray_push_to_talk":       "Push to talk",
		"tray_push_to_talk_hint":  "Address the next phrase to Yuki",
		"tray_hotkey":             "Hotkey: %s",
		"tray_hotkey_hint":        "Change the push-to-talk hotkey",
		"hotkey_changed":          "Push-to-talk hotkey set to %s",
		"tray_quit":               "Quit",
		"tray_quit_hint":          "Close Yuki",

		// Notifications
		"notify_ready": "Yuki is ready",
		"notify_heard": "Heard",
		"notify_error": "Error",

		// Wake word
		"wake_1":        "Yes, Yuki is here.",
		"wake_2":        "Go ahead, Yuki is listening.",
		"wake_3":        "Yuki is ready to help.",
		"wake_4":        "Hey!! Are you teasing me on purpose?",
		"wake_5":        "Now you are definitely teasing me!!!",
		"wake_overflow": "If you do not want to talk to Yuki any more, say 'yuki shutdown'. Calling without speaking makes Yuki sad.",

		// Response templates
		"greeting":        "Hello! How can I help you?",
		"name":            "I am your smart assistant.",
		"unknown_command": "Sorry, I did not understand that.",
		"no_command":      "Please say a command.",
		"no_query":        "Please say what you want to search for.",
		"error":           "Something went wrong while processing the command.",

		// Built-in actions
		"time_now":       "It is %d hours %d minutes %d seconds.",
		"shutdown":       "Yuki is shutting down.",
		"weather_no_key": "Sorry, weather is unavailable because no API key is configured.",
		"weather_report": "The current temperature in Thailand is %v degrees Celsius and the weather is %s.",
		"weather_failed": "Sorry, weather is unavailable right now.",
		"action_unknown": "Sorry, I cannot open %s.",
		"action_failed":  "Sorry, something went wrong while opening the website.",
		"search_google":  "Searched Google for %s.",

		// Shared
		"opened":      "Opened %s.",
		"open_failed": "Something went wrong while opening %s.",

		// Web
		"web_unknown":        "I did not understand the web command. Please try again.",
		"web_search_done":    "Searched '%s' on %s.",
		"web_search_failed":  "Something went wrong while searching.",
		"web_site_missing":   "Please name the website to open.",
		"web_site_opened":    "Opened website %s.",
		"web_site_failed":    "Something went wrong while opening website %s.",
		"web_maps_done":      "Searched %s on Google Maps.",
		"web_maps_failed":    "Something went wrong while searching Google Maps.",
		"web_youtube_done":   "Searched %s on YouTube.",
		"web_youtube_failed": "Something went wrong while searching YouTube.",

		// Apps
		"app_unknown":    "I did not understand which application to open. Please try again.",
		"app_not_found":  "%s was not found on this system.",
		"app_cannot_run": "Cannot open %s.",

		// Media
		"media_unknown":          "I did not understand the media command. Please try again.",
		"media_no_song":          "Please name a song or artist.",
		"media_no_video":         "Please name a video.",
		"media_youtube_played":   "Playing %s on YouTube.",
		"media_youtube_searched": "Searched %s on YouTube.",
		"media_youtube_failed":   "Something went wrong while playing on YouTube.",
		"media_youtube_opened":   "Opened YouTube.",
		"media_spotify_searched": "Searched %s on Spotify.",
		"media_spotify_failed":   "Something went wrong while playing on Spotify.",
		"media_netflix_searched": "Searched %s on Netflix.",
		"media_netflix_failed":   "Something went wrong while searching Netflix.",
		"media_streaming_none":   "I did not understand which streaming service to open.",
		"media_playlist":         "Searched playlist %s.",
		"media_playlist_failed":  "Something went wrong while opening the playlist.",

		// System
		"sys_unknown":          "I did not understand the system command. Please try again.",
		"sys_resources":        "CPU usage: %.1f%% RAM usage: %.1f%% (%.1fGB of %.1fGB)",
		"sys_resources_failed": "Cannot read system resource usage.",
		"sys_disk":             "Disk usage: %.1f%% (%.1fGB of %.1fGB)",
		"sys_disk_failed":      "Cannot read disk usage.",
		"sys_uptime":           "System has been running for %s",
		"sys_uptime_failed":    "Cannot read system uptime.",
		"sys_info":             "System info: CPU: %d cores, RAM: %.1fGB, Disk: %.1fGB",
		"sys_info_failed":      "Cannot read system information.",
		"sys_shutdown":         "Shutting down the system.",
		"sys_shutdown_failed":  "Cannot shut down the system.",
		"sys_restart":          "Restarting the system.",
		"sys_restart_failed":   "Cannot restart the system.",
		"sys_sleep":            "Going to sleep.",
		"sys_sleep_failed":     "Cannot put the system to sleep.",
		"sys_control_unknown":  "I did not understand the system control command.",
		"sys_cancelled":        "Cancelled.",
		"sys_confirm_title":    "Confirm system command",
		"sys_confirm_shutdown": "Shut down the computer now?",
		"sys_confirm_restart":  "Restart the computer now?",
		"sys_confirm_sleep":    "Put the computer to sleep now?",
		"sys_kill":             "Please name the process to kill.",
		"sys_process_header":   "Top processes by resource usage:",
		"sys_process_failed":   "Cannot list processes.",
		"sys_process_unknown":  "I did not understand the process command.",
		"sys_file_create":      "Please give a name and location to create a file or folder.",
		"sys_file_delete":      "Please give a name and location to delete a file or folder.",
		"sys_file_unknown":     "I did not understand the file command.",

		// LLM
		"llm_unreachable":   "Sorry, I cannot reach the AI service.",
		"llm_failed":        "Sorry, something went wrong while generating a reply.",
		"llm_ollama_failed": "Sorry, I cannot reach Ollama.",
		"llm_cloud_failed":  "Sorry, I cannot reach the cloud API.",
		"fallback_greeting": "Hello! Yuki is glad to meet you!",
		"fallback_name":     "My name is Yuki, an AI assistant ready to help you!",
		"fallback_help":     "Yuki can open applications and websites, play music or answer questions.",
		"fallback_thanks":   "You're welcome! Yuki is always happy to help!",
		"fallback_food":     "Thai food is varied and delicious: tom yum goong, pad thai, som tam, green curry, larb, nam prik and shrimp fried rice.",
		"fallback_thailand": "Thailand is a beautiful country in Southeast Asia with a rich culture, great food and friendly people.",
		"fallback_unknown":  "Sorry, Yuki does not understand this question yet, but Yuki can open applications, websites or play music for you.",

		// Errors
		"error_model_not_downloaded": "Speech model is not downloaded. Run: yuki models download",
		"error_recording":            "Microphone error",
		"error_recognition":          "Recognition failed",
		"error_hotkey_register":      "Failed to register hotkey",
	},
}

// T returns the translation for the given key.
func T(key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if strings, ok := translations[current]; ok {
		if s, ok := strings[key]; ok {
			return s
		}
	}
	// Fallback to key itself
	return key
}

// Tf formats the translation for key with args.
func Tf(key string, args ...any) string {
	return fmt.Sprintf(T(key), args...)
}

// Has reports whether key exists in the current catalogue.
func Has(key string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := translations[current][key]
	return ok
}

// SetLanguage sets the current reply language.
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := translations[lang]; ok {
		current = lang
	}
}

// GetLanguage returns the current reply language.
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// AvailableLanguages returns list of supported languages.
func AvailableLanguages() []Language {
	return []Language{TH, EN}
}

// LanguageName returns display name for a language.
func LanguageName(lang Language) string {
	switch lang {
	case TH:
		return "ไทย"
	case EN:
		return "English"
	default:
		return string(lang)
	}
}
