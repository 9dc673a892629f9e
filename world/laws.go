package world

// Supports відповідає на питання "чи можна покласти supported
// безпосередньо на (або в) supporter?".
// При polarity=false аргументи спершу міняються місцями
// (так виражається "під" через заперечення "на").
//
// Правила перевіряються по черзі, перше спрацьоване вирішує:
//  1. м'яч нічого не тримає;
//  2. великий не лягає на малий (невідомий розмір проходить перевірку);
//  3. м'яч - тільки в коробку або на підлогу;
//     коробка - див. supportsBox;
//     все інше дозволено.
func Supports(supporter, supported Object, polarity bool) bool {
	if !polarity {
		supporter, supported = supported, supporter
	}

	if supporter.Form == Ball {
		return false
	}

	a, b := supported.Size.rank(), supporter.Size.rank()
	if a != 0 && b != 0 && a > b {
		return false
	}

	switch supported.Form {
	case Ball:
		return supporter.Form == Box || supporter.Form == FloorForm
	case Box:
		return supportsBox(supporter, supported)
	}
	return true
}

func supportsBox(supporter, box Object) bool {
	switch {
	case box.Size == supporter.Size:
		// Коробка не стає в однакову за розміром піраміду, дошку чи коробку.
		return supporter.Form != Pyramid && supporter.Form != Plank && supporter.Form != Box
	case box.Size == Small:
		return supporter.Form != Brick && supporter.Form != Pyramid
	case box.Size == Large:
		return supporter.Form != Pyramid
	}
	return true
}
