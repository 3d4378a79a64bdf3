// Package ui is the Gio view drawn once per frame: a toolbar standing in for
// the File, Edit and Help menus, the clip list, and the About dialog.
package ui

import (
	"image"
	"log/slog"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"go.klb.dev/clipstash/internal/app"
	"go.klb.dev/clipstash/internal/scheduler"
)

// Description is the one-liner in the About dialog.
const Description = "Keeps a history of the text you copy."

// View holds the widget state between frames.
type View struct {
	ctx        *app.Context
	th         *material.Theme
	trimLength int

	autostart   widget.Bool
	trimClips   widget.Bool
	saveHistory widget.Bool
	exit        widget.Clickable
	clear       widget.Clickable
	about       widget.Clickable
	closeAbout  widget.Clickable

	list      widget.List
	rows      []row
	showAbout bool
}

type row struct {
	// text is the entry this row showed last frame
	text   string
	area   widget.Clickable
	copy   widget.Clickable
	remove widget.Clickable
}

// NewView creates a view over ctx. trimLength <= 0 means TrimLength.
func NewView(ctx *app.Context, th *material.Theme, trimLength int) *View {
	if trimLength <= 0 {
		trimLength = TrimLength
	}
	v := &View{ctx: ctx, th: th, trimLength: trimLength}
	v.list.Axis = layout.Vertical
	v.autostart.Value = ctx.AutostartEnabled()
	return v
}

// Draw lays out one frame. It matches scheduler.DrawFunc[layout.Context].
func (v *View) Draw(gtx layout.Context, ctl *scheduler.Control) {
	v.update(gtx, ctl)

	paint.Fill(gtx.Ops, v.th.Bg)
	layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(v.layoutToolbar),
		layout.Flexed(1, v.layoutList),
	)
	if v.showAbout {
		v.layoutAbout(gtx)
		// keep redrawing while the dialog is open
		ctl.Refresh()
	}
}

// update applies the interactions recorded since the last frame.
func (v *View) update(gtx layout.Context, ctl *scheduler.Control) {
	prefs := v.ctx.Preferences()

	if v.autostart.Update(gtx) {
		v.act(ctl, "autostart", v.ctx.SetAutostart(v.autostart.Value))
		v.autostart.Value = v.ctx.AutostartEnabled()
	}
	v.trimClips.Value = prefs.TrimClips
	if v.trimClips.Update(gtx) {
		v.act(ctl, "trim clips", v.ctx.SetTrimClips(v.trimClips.Value))
	}
	v.saveHistory.Value = prefs.SaveHistory
	if v.saveHistory.Update(gtx) {
		v.act(ctl, "save history", v.ctx.SetSaveHistory(v.saveHistory.Value))
	}
	if v.clear.Clicked(gtx) {
		v.act(ctl, "clear history", v.ctx.ClearHistory())
	}
	if v.about.Clicked(gtx) {
		v.showAbout = true
		ctl.Refresh()
	}
	if v.closeAbout.Clicked(gtx) {
		v.showAbout = false
		ctl.Refresh()
	}
	if v.exit.Clicked(gtx) {
		ctl.Exit()
	}

	// Rows are from the previous frame. The control socket may have changed
	// the list since, so each action names the entry the row displayed.
	for i := range v.rows {
		r := &v.rows[i]
		if r.copy.Clicked(gtx) {
			v.act(ctl, "copy", v.ctx.CopyEntry(i, r.text))
		}
		for {
			c, ok := r.area.Update(gtx)
			if !ok {
				break
			}
			if c.NumClicks == 2 {
				v.act(ctl, "copy", v.ctx.CopyEntry(i, r.text))
			}
		}
		if r.remove.Clicked(gtx) {
			v.act(ctl, "remove", v.ctx.RemoveEntry(i, r.text))
			// later rows shifted; their clicks belong to other entries now
			break
		}
	}
}

func (v *View) act(ctl *scheduler.Control, what string, err error) {
	if err != nil {
		slog.Warn("action failed", "action", what, "err", err)
	}
	ctl.Refresh()
}

func (v *View) layoutToolbar(gtx layout.Context) layout.Dimensions {
	group := func(title string, ws ...layout.Widget) layout.FlexChild {
		return layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			children := []layout.FlexChild{
				layout.Rigid(material.Caption(v.th, title).Layout),
			}
			for _, w := range ws {
				children = append(children, layout.Rigid(w))
			}
			return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
			})
		})
	}
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
		group("File",
			material.CheckBox(v.th, &v.autostart, "Start on Startup").Layout,
			material.Button(v.th, &v.exit, "Exit").Layout,
		),
		group("Edit",
			material.CheckBox(v.th, &v.trimClips, "Trim Clips").Layout,
			material.CheckBox(v.th, &v.saveHistory, "Save History").Layout,
			material.Button(v.th, &v.clear, "Clear History").Layout,
		),
		group("Help",
			material.Button(v.th, &v.about, "About").Layout,
		),
	)
}

func (v *View) layoutList(gtx layout.Context) layout.Dimensions {
	items := v.ctx.Snapshot()
	trim := v.ctx.Preferences().TrimClips
	if len(v.rows) != len(items) {
		v.rows = make([]row, len(items))
	}
	return material.List(v.th, &v.list).Layout(gtx, len(items), func(gtx layout.Context, i int) layout.Dimensions {
		r := &v.rows[i]
		r.text = items[i]
		text := DisplayText(items[i], trim, v.trimLength)
		return layout.UniformInset(unit.Dp(4)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					return r.area.Layout(gtx, material.Body1(v.th, text).Layout)
				}),
				layout.Rigid(material.Button(v.th, &r.copy, "Copy").Layout),
				layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
				layout.Rigid(material.Button(v.th, &r.remove, "Remove").Layout),
			)
		})
	})
}

func (v *View) layoutAbout(gtx layout.Context) layout.Dimensions {
	paint.FillShape(gtx.Ops, Scrim, clip.Rect{Max: gtx.Constraints.Max}.Op())
	return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		gtx.Constraints.Min = image.Point{}
		return layout.Stack{}.Layout(gtx,
			layout.Expanded(func(gtx layout.Context) layout.Dimensions {
				paint.FillShape(gtx.Ops, PinkLight, clip.UniformRRect(image.Rectangle{Max: gtx.Constraints.Min}, gtx.Dp(8)).Op(gtx.Ops))
				return layout.Dimensions{Size: gtx.Constraints.Min}
			}),
			layout.Stacked(func(gtx layout.Context) layout.Dimensions {
				return layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
						layout.Rigid(material.H6(v.th, app.Name).Layout),
						layout.Rigid(material.Body2(v.th, "Version "+app.Version).Layout),
						layout.Rigid(material.Body1(v.th, Description).Layout),
						layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
						layout.Rigid(material.Button(v.th, &v.closeAbout, "Close").Layout),
					)
				})
			}),
		)
	})
}
