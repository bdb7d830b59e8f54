// Package main provides localization for the rendercast CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Render frame-indexed compositions into media files.": "フレームインデックス付きコンポジションをメディアファイルにレンダリングします。",

		// Render command
		"Render a composition to an MP4 file.": "コンポジションをMP4ファイルにレンダリング",

		// Probe command
		"Summarize a rendered MP4 file.": "レンダリング済みMP4ファイルのサマリーを表示",

		// Version command
		"Show version information.":  "バージョン情報を表示",
		"rendercast version %s":      "rendercast バージョン %s",

		// Runtime messages
		"Output saved to %s":            "出力を %s に保存しました",
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",
	})
}
