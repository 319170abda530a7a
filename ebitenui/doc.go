// Package ebitenui hosts an [arbor.Tree] inside an [Ebitengine] game.
//
// It supplies the three pieces a tree needs from its host: a [Renderer]
// that paints onto an *ebiten.Image, an [InputPoller] that turns mouse and
// keyboard state into [arbor.Event] values, and [ApplyCursor] to show the
// cursor shape the tree asks for.
//
// The simplest way to get started is [Run], which creates a window and game
// loop around a tree-building function:
//
//	st := arbor.NewState()
//	err := ebitenui.Run(func() *arbor.Tree[string] {
//		return arbor.New(branches()...)
//	}, st, ebitenui.RunConfig{Title: "Tree", Width: 480, Height: 640})
//
// For full control, keep the renderer and poller in your own ebiten.Game
// and call [arbor.Tree.Frame] from Update and [arbor.Tree.Draw] from Draw.
//
// [Ebitengine]: https://ebitengine.org
package ebitenui
