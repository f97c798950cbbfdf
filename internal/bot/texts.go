package bot

import "fmt"

const startText = `╔══════════════════════╗
   🤖 Welcome Guys💖
╚══════════════════════╝

✨ I’m your Multifunctional Bot ⚡

✅ Features:
📝 Rename Files
🔗 URL Uploader
🎬 Convert
🗜️ Compress

🚀 Send me a file / link & I’ll do the rest 😎

📌 Use /help for commands`

const helpText = `✅ Commands:
• /start - Start bot
• /help - Help menu
• /delthumb - Delete thumbnail

📌 How to use:
1) Send a photo to set thumbnail
2) Send file/video -> bot asks new name
3) Select format (Document/Video)`

const (
	thumbSavedText    = "✅ Thumbnail Saved Successfully!"
	thumbDeletedText  = "✅ Thumbnail Deleted"
	thumbMissingText  = "ℹ️ No thumbnail found."
	cancelledText     = "❌ Cancelled"
	nothingToCancel   = "Nothing to cancel."
	unknownActionText = "Unsupported action"
)

// progressLabel renders one milestone of the synthetic progress bar.
func progressLabel(percent int) string {
	switch percent {
	case 0:
		return "⚪⚪⚪⚪⚪⚪⚪⚪⚪⚪⚪⚪⚪⚪⚪⚪\n0%"
	case 40:
		return "🔴🔴🔴⚪⚪⚪⚪⚪⚪⚪⚪⚪⚪⚪⚪⚪\n✅ 40%"
	case 65:
		return "🟠🟠🟠🟠🟠🟠⚪⚪⚪⚪⚪⚪⚪⚪⚪⚪\n✅ 65%"
	case 100:
		return "🟢🟢🟢🟢🟢🟢🟢🟢🟢🟢🟢🟢🟢🟢🟢🟢\n✅ 100%"
	}
	return fmt.Sprintf("⏳ Processing... %d%%", percent)
}
