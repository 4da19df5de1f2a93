// Package locale renders player-facing chat lines.
package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the key.
const (
	MsgPoisoned       = "You are poisoned by FakeWater!"
	MsgLeftWater      = "You left the FakeWater."
	MsgReceivedBucket = "You've received a Fake Water Bucket!"
	MsgPlayersOnly    = "Only players can execute this command."
	MsgInventoryFull  = "Your inventory is full."
	MsgBucketName     = "Fake Water"
	MsgUnknownCommand = "Unknown command: %s"
	MsgUsage          = "Usage: %s"
	MsgFlooded        = "Tagged %d fake water blocks."
	MsgSaved          = "Saved %d fake water blocks."
	MsgSaveFailed     = "Failed to save fake water blocks: %v"
	MsgUnknownPlayer  = "Unknown player: %s"
	MsgUnknownWorld   = "Unknown world: %s"
	MsgOK             = "OK"
	MsgRejected       = "Rejected: %s"
)

var zhHant = map[string]string{
	MsgPoisoned:       "你被假水毒害了！",
	MsgLeftWater:      "你離開了假水。",
	MsgReceivedBucket: "你獲得了假水桶！",
	MsgPlayersOnly:    "只有玩家可以執行此指令。",
	MsgInventoryFull:  "你的背包已滿。",
	MsgBucketName:     "假水",
	MsgUnknownCommand: "未知的指令：%s",
	MsgUsage:          "用法：%s",
	MsgFlooded:        "已標記 %d 個假水方塊。",
	MsgSaved:          "已儲存 %d 個假水方塊。",
	MsgSaveFailed:     "儲存假水方塊失敗：%v",
	MsgUnknownPlayer:  "未知的玩家：%s",
	MsgUnknownWorld:   "未知的世界：%s",
	MsgOK:             "完成",
	MsgRejected:       "已拒絕：%s",
}

var (
	cat       = newCatalog()
	supported = []language.Tag{language.English, language.TraditionalChinese}
	matcher   = language.NewMatcher(supported)
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, zh := range zhHant {
		b.SetString(language.English, key, key)
		b.SetString(language.TraditionalChinese, key, zh)
	}
	return b
}

// Printer formats catalog messages for one language.
type Printer struct {
	p *message.Printer
}

// New returns a printer for the BCP 47 tag; unsupported or malformed tags
// fall back to English.
func New(tag string) *Printer {
	t, err := language.Parse(tag)
	if err != nil {
		t = language.English
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No {
		idx = 0
	}
	return &Printer{p: message.NewPrinter(supported[idx], message.Catalog(cat))}
}

// Sprintf renders key with args.
func (p *Printer) Sprintf(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}
