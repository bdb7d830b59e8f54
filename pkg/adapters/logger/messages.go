package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Rendering %d frames at %dx%d @%d fps": "%d フレームを %dx%d @%d fps でレンダリング中",
		"Render completed (no frames)":         "レンダリング完了 (フレームなし)",
		"Render completed: %d frames, avg %s/frame, slowest frame %d at %s": "レンダリング完了: %d フレーム, 平均 %s/フレーム, 最遅フレーム %d (%s)",
		"Output saved to %s":            "出力を %s に保存しました",
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",

		// Timeline resolution
		"Resolved %d audio track(s) against %d anchor(s)":        "%d 個のオーディオトラックを %d 個のアンカーに対して解決しました",
		"Sync anchor %q not found, track timing left unchanged":  "同期アンカー %q が見つからないため、トラックのタイミングは変更されません",
		"Anchor %q spans %s":                                     "アンカー %q の範囲は %s です",

		// Capture (component)
		"Pixel ratio %.3f for %dx%d target": "ピクセル比 %.3f (ターゲット %dx%d)",
		"Surface %dx%d does not match target aspect %dx%d, raw frames may be distorted": "サーフェス %dx%d がターゲットのアスペクト比 %dx%d と一致しません。RAWフレームが歪む可能性があります",

		// Frame loop
		"Frame %d: side channel not ready after %s, capturing anyway": "フレーム %d: サイドチャネルが %s 経過しても準備できないため、キャプチャを続行します",

		// Encoder (component)
		"Encoder session %s started: ffmpeg %dx%d @%d fps -> %s": "エンコーダセッション %s を開始: ffmpeg %dx%d @%d fps -> %s",
		"Encoder session %s canceled":                            "エンコーダセッション %s をキャンセルしました",
	})
}
