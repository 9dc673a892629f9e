package blocks

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/youryharchenko/go-shrdlite/world"
)

var objectColors = map[string]color.RGBA{
	"red":    {220, 60, 50, 255},
	"green":  {50, 180, 90, 255},
	"blue":   {50, 120, 220, 255},
	"yellow": {240, 200, 40, 255},
	"white":  {240, 240, 240, 255},
	"black":  {40, 40, 40, 255},
}

var (
	floorColor = color.RGBA{90, 70, 50, 255}
	armColor   = color.RGBA{120, 120, 120, 255}
	textColor  = color.RGBA{20, 20, 20, 255}
)

// BlocksBoard - віджет світу кубиків: стовпчики, об'єкти, рука.
type BlocksBoard struct {
	widget.BaseWidget

	// Дані для відображення
	World   world.World
	Visited int // скільки станів запам'ятала рука
}

func NewBlocksBoard() *BlocksBoard {
	b := &BlocksBoard{}
	b.ExtendBaseWidget(b)
	return b
}

// UpdateState оновлює дані і перемальовує віджет
func (b *BlocksBoard) UpdateState(w world.World, visited int) {
	b.World = w
	b.Visited = visited
	b.Refresh()
}

func (b *BlocksBoard) CreateRenderer() fyne.WidgetRenderer {
	return &boardRenderer{board: b}
}

type boardRenderer struct {
	board   *BlocksBoard
	objects []fyne.CanvasObject
}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 240)
}

// Позиції рахуються в Refresh.
func (r *boardRenderer) Layout(size fyne.Size) {}

func (r *boardRenderer) Refresh() {
	r.objects = nil
	w := r.board.World
	s := w.State
	if len(s.Stacks) == 0 {
		return
	}

	size := r.board.Size()
	colW := size.Width / float32(len(s.Stacks))
	// Найвищий стовпчик плюс два рівні під руку.
	levels := 2
	for _, col := range s.Stacks {
		levels = max(levels, len(col)+2)
	}
	unit := min((size.Height-20)/float32(levels), colW)
	floorY := size.Height - 20

	floor := canvas.NewRectangle(floorColor)
	floor.Move(fyne.NewPos(0, floorY))
	floor.Resize(fyne.NewSize(size.Width, 6))
	r.objects = append(r.objects, floor)

	for c, col := range s.Stacks {
		x := float32(c) * colW
		y := floorY
		for _, id := range col {
			y = r.drawObject(w, id, x, y, colW, unit)
		}
		label := canvas.NewText(strconv.Itoa(c), textColor)
		label.TextSize = 10
		label.Move(fyne.NewPos(x+colW/2-3, floorY+6))
		r.objects = append(r.objects, label)
	}

	// Рука: трос від верху до рівня над найвищим стовпчиком.
	ax := float32(s.Arm)*colW + colW/2
	hookY := unit * 0.8
	cable := canvas.NewLine(armColor)
	cable.StrokeWidth = 3
	cable.Position1 = fyne.NewPos(ax, 0)
	cable.Position2 = fyne.NewPos(ax, hookY)
	r.objects = append(r.objects, cable)
	if s.Holding != "" {
		r.drawObject(w, s.Holding, float32(s.Arm)*colW, hookY+unit, colW, unit)
	}

	visited := canvas.NewText("visited: "+strconv.Itoa(r.board.Visited), textColor)
	visited.TextSize = 10
	visited.Move(fyne.NewPos(4, 2))
	r.objects = append(r.objects, visited)

	fyne.Do(func() { canvas.Refresh(r.board) })
}

// drawObject малює об'єкт, що стоїть на рівні bottom, і повертає його верх.
func (r *boardRenderer) drawObject(w world.World, id string, x, bottom, colW, unit float32) float32 {
	o := w.Objects[id]
	fill, ok := objectColors[o.Color]
	if !ok {
		fill = color.RGBA{180, 180, 180, 255}
	}

	width := colW * 0.9
	if o.Size == world.Small {
		width = colW * 0.55
	}
	height := unit * 0.9
	if o.Form == world.Plank {
		height = unit * 0.35
	}
	left := x + (colW-width)/2
	top := bottom - height

	switch o.Form {
	case world.Ball:
		d := min(width, height)
		ball := canvas.NewCircle(fill)
		ball.Move(fyne.NewPos(x+(colW-d)/2, bottom-d))
		ball.Resize(fyne.NewSize(d, d))
		r.objects = append(r.objects, ball)
		top = bottom - d

	case world.Box:
		box := canvas.NewRectangle(color.Transparent)
		box.StrokeColor = fill
		box.StrokeWidth = 4
		box.Move(fyne.NewPos(left, top))
		box.Resize(fyne.NewSize(width, height))
		r.objects = append(r.objects, box)
		// Вміст коробки малюється всередині: верх - трохи вище дна.
		top = bottom - height*0.25

	case world.Pyramid:
		// Сходинки замість трикутника.
		for i := range 3 {
			wi := width * float32(3-i) / 3
			step := canvas.NewRectangle(fill)
			step.Move(fyne.NewPos(x+(colW-wi)/2, bottom-height*float32(i+1)/3))
			step.Resize(fyne.NewSize(wi, height/3))
			r.objects = append(r.objects, step)
		}

	case world.Table:
		slab := canvas.NewRectangle(fill)
		slab.Move(fyne.NewPos(left, top))
		slab.Resize(fyne.NewSize(width, height*0.25))
		r.objects = append(r.objects, slab)
		for _, lx := range []float32{left, left + width - width*0.12} {
			leg := canvas.NewRectangle(fill)
			leg.Move(fyne.NewPos(lx, top+height*0.25))
			leg.Resize(fyne.NewSize(width*0.12, height*0.75))
			r.objects = append(r.objects, leg)
		}

	default:
		block := canvas.NewRectangle(fill)
		block.StrokeColor = textColor
		block.StrokeWidth = 1
		block.Move(fyne.NewPos(left, top))
		block.Resize(fyne.NewSize(width, height))
		r.objects = append(r.objects, block)
	}

	label := canvas.NewText(id, textColor)
	if o.Color == "black" || o.Color == "blue" {
		label.Color = color.White
	}
	label.TextSize = 11
	label.Move(fyne.NewPos(x+colW/2-4, bottom-height/2-7))
	r.objects = append(r.objects, label)
	return top
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *boardRenderer) Destroy() {}
