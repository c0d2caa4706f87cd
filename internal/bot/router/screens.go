package router

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/filekeeper/internal/bot/models"
	"github.com/dmitrijs2005/filekeeper/internal/bot/token"
	"github.com/dmitrijs2005/filekeeper/internal/bot/view"
	"github.com/dmitrijs2005/filekeeper/internal/common"
)

// Callback payload prefixes. Together with a token.Width token and a page
// number every payload stays well under common.CallbackPayloadLimit.
const (
	cbHome       = "home"
	cbHelp       = "help"
	cbList       = "list" // list:<page>:<mode>
	cbView       = "view" // view:<token>
	cbDelete     = "del"  // del:<token>  (asks for confirmation)
	cbDeleteOK   = "delok"
	cbRename     = "rn"
	cbSelect     = "sel" // sel:<token>:<page>
	cbBatchOK    = "batchok"
	cbDeleteAll  = "allask"
	cbDeleteAllY = "allok"

	modeNormal = "n"
	modeBatch  = "b"
)

func btn(label, data string) view.Button {
	return view.Button{Label: label, Data: data}
}

func homeRow() []view.Button {
	return []view.Button{btn("🏠 Home", cbHome)}
}

func truncate(name string, max int) string {
	if len(name) <= max {
		return name
	}
	return name[:max-3] + "..."
}

func homeScreen() view.Screen {
	return view.Screen{
		Text: "👋 Hi! I am your file keeper.\n\n" +
			"📤 Send me a file, photo or video to upload it.\n" +
			"📂 Every upload gets a download link and a QR code.",
		Buttons: [][]view.Button{
			{btn("📂 Files", cbList+":0:"+modeNormal), btn("ℹ️ Help", cbHelp)},
		},
	}
}

func passwordPromptScreen(retry bool) view.Screen {
	text := "🔐 Enter the access password:"
	if retry {
		text = "❌ Wrong password, try again:"
	}
	return view.Screen{Text: text}
}

func helpScreen() view.Screen {
	return view.Screen{
		Text: "ℹ️ How to use\n\n" +
			"📤 send a file / photo / video to upload\n" +
			"📂 /list shows uploaded files\n" +
			"🔍 /search <keyword> searches by name\n" +
			"🗑 /delete <name> deletes a file\n" +
			"🧹 /clear selects files for batch deletion\n" +
			"🚪 /logout revokes your access\n\n" +
			"Any format works; same names overwrite.",
		Buttons: [][]view.Button{homeRow()},
	}
}

// noticeScreen is a one-line status with a way back home.
func noticeScreen(text string) view.Screen {
	return view.Screen{Text: text, Buttons: [][]view.Button{homeRow()}}
}

func staleScreen() view.Screen {
	return view.Screen{
		Text: "⚠️ That entry is no longer valid. Refresh the list.",
		Buttons: [][]view.Button{
			{btn("📂 Files", cbList+":0:"+modeNormal)},
			homeRow(),
		},
	}
}

func emptyListScreen() view.Screen {
	return noticeScreen("📭 No files yet.\n\nSend me one to upload it.")
}

// listScreen renders one page of objects. In batch mode the buttons toggle
// selection instead of opening the detail view.
func listScreen(objects []models.StoredObject, page, totalPages int, mode models.ListMode, selected map[string]struct{}, total int) view.Screen {
	var sb strings.Builder
	if mode == models.ListBatchDelete {
		sb.WriteString("🧹 Batch delete\n\nTap files to select:\n\n")
	} else {
		fmt.Fprintf(&sb, "📂 Files (%d total)\n\n", total)
	}

	var rows [][]view.Button
	for _, obj := range objects {
		info := common.FormatByteSize(obj.SizeBytes)
		if !obj.CreatedAt.IsZero() {
			if info != "" {
				info += " | "
			}
			info += obj.CreatedAt.Format("01-02 15:04")
		}
		if info != "" {
			fmt.Fprintf(&sb, "• %s (%s)\n", obj.Path, info)
		} else {
			fmt.Fprintf(&sb, "• %s\n", obj.Path)
		}

		tok := token.Register(obj.Path)
		display := truncate(obj.Path, 35)
		if mode == models.ListBatchDelete {
			mark := "☐"
			if _, ok := selected[obj.Path]; ok {
				mark = "☑"
			}
			rows = append(rows, []view.Button{
				btn(mark+" "+display, fmt.Sprintf("%s:%s:%d", cbSelect, tok, page)),
			})
		} else {
			rows = append(rows, []view.Button{
				btn("📄 "+display, cbView+":"+tok),
			})
		}
	}

	modeTag := modeNormal
	if mode == models.ListBatchDelete {
		modeTag = modeBatch
	}
	var nav []view.Button
	if page > 0 {
		nav = append(nav, btn("⬅️ Prev", fmt.Sprintf("%s:%d:%s", cbList, page-1, modeTag)))
	}
	if page < totalPages-1 {
		nav = append(nav, btn("➡️ Next", fmt.Sprintf("%s:%d:%s", cbList, page+1, modeTag)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	if mode == models.ListBatchDelete {
		rows = append(rows, []view.Button{
			btn("🗑 Delete selected", cbBatchOK),
			btn("🗑 Delete all", cbDeleteAll),
		})
		rows = append(rows, []view.Button{btn("❌ Cancel", cbList+":0:"+modeNormal)})
	} else {
		rows = append(rows, []view.Button{
			btn("🧹 Batch delete", cbList+":0:"+modeBatch),
		})
		rows = append(rows, homeRow())
	}

	fmt.Fprintf(&sb, "\nPage %d/%d", page+1, totalPages)
	return view.Screen{Text: sb.String(), Buttons: rows}
}

// detailScreen is the per-file view: QR code photo, share link caption, and
// the rename/delete actions.
func detailScreen(name, url string, qrPNG []byte, sizeBytes int64, uploaded bool) view.Screen {
	var sb strings.Builder
	if uploaded {
		sb.WriteString("✅ Uploaded\n\n")
	}
	if size := common.FormatByteSize(sizeBytes); size != "" {
		fmt.Fprintf(&sb, "📄 %s (%s)\n\n", name, size)
	} else {
		fmt.Fprintf(&sb, "📄 %s\n\n", name)
	}
	fmt.Fprintf(&sb, "🔗 %s", url)

	tok := token.Register(name)
	return view.Screen{
		Text:  sb.String(),
		Photo: qrPNG,
		Buttons: [][]view.Button{
			{btn("✏️ Rename", cbRename+":"+tok), btn("🗑 Delete", cbDelete+":"+tok)},
			{btn("📂 Files", cbList+":0:"+modeNormal)},
			homeRow(),
		},
	}
}

func confirmDeleteScreen(name, tok string) view.Screen {
	return view.Screen{
		Text: "⚠️ Delete this file?\n\n📄 " + name,
		Buttons: [][]view.Button{
			{btn("✅ Delete", cbDeleteOK+":"+tok), btn("❌ Cancel", cbList+":0:"+modeNormal)},
		},
	}
}

func confirmDeleteAllScreen() view.Screen {
	return view.Screen{
		Text: "⚠️ Delete ALL files?\n\nThis cannot be undone.",
		Buttons: [][]view.Button{
			{btn("✅ Delete everything", cbDeleteAllY), btn("❌ Cancel", cbList+":0:"+modeNormal)},
		},
	}
}

func renamePromptScreen(name, ext string) view.Screen {
	text := "✏️ Send the new name for\n\n📄 " + name
	if ext != "" {
		text += "\n\nThe extension " + ext + " is kept unless you include one."
	}
	text += "\n\nSend /cancel to abort."
	return view.Screen{Text: text}
}

func errorScreen(action string) view.Screen {
	return noticeScreen("❌ " + action + " failed, please try again.")
}
