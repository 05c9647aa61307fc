// Package render 定义文档输出端的抽象：布局层通过 Writer 申请页面并取得
// 绘制表面，最终由具体后端编码为字节流。
package render

import "github.com/folio-layout/folio/layout"

// Writer 是分页输出端。AddPage/Page 满足 layout.PageSource，布局可以直接
// 把 Writer 当作页面来源使用；Finish 结束文档并编码。
type Writer interface {
	// AddPage 追加一个给定尺寸（pt）的页面并返回其索引。
	AddPage(widthPt, heightPt float64) int

	// Page 返回已存在页面的绘制表面。
	Page(index int) layout.Surface

	// Finish 写出所有页面并返回编码结果。调用后 Writer 不可再用。
	Finish() ([]byte, error)
}

// Metadata 是写入文档信息字典的元数据。零值字段不写入。
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Keywords []string
}
