package model

// Mode 区分两套平行的互动空间：浪漫模式与朋友模式。
// 两套空间各自拥有一组物理表，除历史遗留的共享消息回退外互不引用。
type Mode string

const (
	ModeRomantic Mode = "romantic"
	ModePlatonic Mode = "platonic"
)

// Modes 全部互动模式
var Modes = []Mode{ModeRomantic, ModePlatonic}

// ModeTables 某一模式下各实体解析到的物理表名
type ModeTables struct {
	Likes    string
	Passes   string
	Matches  string
	Chats    string
	Messages string
}

var modeTables = map[Mode]ModeTables{
	ModeRomantic: {
		Likes:    "likes",
		Passes:   "passes",
		Matches:  "matches",
		Chats:    "chats",
		Messages: "messages",
	},
	ModePlatonic: {
		Likes:    "platonic_likes",
		Passes:   "platonic_passes",
		Matches:  "platonic_matches",
		Chats:    "platonic_chats",
		Messages: "platonic_messages",
	},
}

// SharedTables 共享分区（浪漫模式的默认表），历史双表结构的回退目标
func SharedTables() ModeTables {
	return modeTables[ModeRomantic]
}

// Tables 返回该模式的表名集合
func (m Mode) Tables() ModeTables {
	return modeTables[m]
}

func (m Mode) Valid() bool {
	_, ok := modeTables[m]
	return ok
}

// ParseMode 解析模式参数，空值兼容老客户端默认浪漫模式
func ParseMode(s string) (Mode, bool) {
	if s == "" {
		return ModeRomantic, true
	}
	m := Mode(s)
	return m, m.Valid()
}
