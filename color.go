package main

import "github.com/fatih/color"

// colorHelper 终端着色，输出不是终端时不着色
type colorHelper struct {
	enabled bool
}

func newColorHelper() *colorHelper {
	return &colorHelper{enabled: !color.NoColor}
}

func (c *colorHelper) success(text string) string {
	if !c.enabled {
		return text
	}
	return color.GreenString(text)
}

func (c *colorHelper) failure(text string) string {
	if !c.enabled {
		return text
	}
	return color.RedString(text)
}

func (c *colorHelper) highlight(text string) string {
	if !c.enabled {
		return text
	}
	return color.New(color.FgYellow, color.Bold).Sprint(text)
}

// winner 胜者绿色，平局黄色
func (c *colorHelper) winner(w Winner, sides Sides) string {
	if w == WinnerTie {
		return c.highlight(w.Label(sides))
	}
	return c.success(w.Label(sides))
}

// rate 成功率不足100%时标红
func (c *colorHelper) rate(s EndpointStats, text string) string {
	if s.SuccessfulCalls < s.TotalCalls {
		return c.failure(text)
	}
	return text
}
