// Package source 提供模拟翻译结果的占位文本，供 sample 命令与测试使用。
package source

import (
	"time"

	"github.com/ByLCY/vellum/binding"
)

// LocalTimeLayout 是正文中“处理时间”的格式。
const LocalTimeLayout = "2006/1/2 15:04:05"

const placeholderTemplate = `翻譯文檔：${file}

本文檔已成功翻譯為中文版本。

主要內容：

1. 文檔概述
   這是一份經過專業翻譯的PDF文檔，保持了原始格式和內容結構。
   翻譯過程採用了先進的語言處理技術，確保翻譯的準確性和流暢性。

2. 技術規格
   - 文檔格式：PDF
   - 翻譯語言：中文
   - 處理時間：${time.local}
   - 文件狀態：翻譯完成

3. 內容摘要
   本文檔包含了重要的信息和數據，經過仔細的翻譯處理，
   確保所有專業術語和概念都能準確地以中文表達。

4. 使用說明
   請妥善保存此翻譯版本，如有任何疑問或需要進一步的
   翻譯服務，請聯繫相關技術支持團隊。

注意事項：
- 本翻譯僅供參考使用
- 如需正式文檔請聯繫專業翻譯服務
- 請確保文檔使用符合相關法規要求

翻譯完成時間：${time.iso}
原始檔案：${file}`

// Placeholder 返回模拟的翻译正文；now 决定正文中的两个时间戳。
func Placeholder(fileName string, now time.Time) string {
	return binding.Expand(placeholderTemplate, binding.Vars{
		"file": fileName,
		"time": map[string]any{
			"local": now.Format(LocalTimeLayout),
			"iso":   now.UTC().Format("2006-01-02T15:04:05.000Z"),
		},
	})
}
