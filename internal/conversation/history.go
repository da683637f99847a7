package conversation

// History стек предыдущих шагов для навигации "назад".
// MENU в стек никогда не попадает
type History []Step

// PushIfEligible кладёт current в стек, если это не MENU и шаг действительно меняется
func (h *History) PushIfEligible(current, next Step) {
	if current == StepMenu || current == next {
		return
	}
	*h = append(*h, current)
}

// PopOrRoot снимает верхний шаг или возвращает MENU, если стек пуст
func (h *History) PopOrRoot() Step {
	n := len(*h)
	if n == 0 {
		return StepMenu
	}
	top := (*h)[n-1]
	*h = (*h)[:n-1]
	return top
}

func (h History) Len() int {
	return len(h)
}
