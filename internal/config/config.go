// internal/config/config.go
package config

import "image/color"

const (
	DefaultDisplaySize = 800
	BezelPad           = 20 // поле вокруг индикатора под шкалу
	DefaultMapSize     = 1000.0
	AntennaHeight      = 35.0
	DefaultGain        = 0.9
	DefaultTickRate    = 75.0
	MaxDeltaTime       = 0.1
	SweepStepDeg       = 1.0
	GainStep           = 0.05

	DefaultMaxHeight = 28.0 // высота рельефа при яркости 255
	FlatGridSize     = 256

	DefaultTargetWeight = 0.8
	DefaultStepInterval = 7.0
	HeightmapCacheSize  = 8

	HUDHeight          = 60   // полоса над индикатором под кнопки и текст
	SpeedButtonOffsetX = 80   // Отступ слева от края индикатора
	SpeedButtonY       = 30   // Позиция по Y
	SpeedButtonSize    = 18.0 // Радиус кнопки
	PauseButtonOffsetX = 130
	GainBarWidth       = 120
	GainBarHeight      = 10
	UIBorderWidth      = 2.0
	ClickCooldown      = 150 // ms
	TextCharWidth      = 7
)

var (
	BackgroundColor  = color.RGBA{8, 12, 8, 255}
	RevealColor      = color.RGBA{255, 255, 0, 255} // цвет отметки при полной засветке
	SuppressedColor  = color.RGBA{0, 0, 0, 255}
	SweepLineColor   = color.RGBA{0, 140, 0, 140}
	BezelColor       = color.RGBA{240, 240, 240, 255}
	TextLightColor   = color.RGBA{240, 240, 240, 255}
	PauseButtonColor = color.RGBA{70, 130, 180, 220}
	PlayButtonColor  = color.RGBA{60, 179, 113, 220}
	UIBorderColor    = color.RGBA{255, 255, 255, 255}
	GainBarColor     = color.RGBA{255, 255, 0, 200}

	SpeedButtonColors = []color.Color{
		color.RGBA{70, 130, 180, 220},  // x1
		color.RGBA{220, 60, 60, 220},   // x2
		color.RGBA{194, 178, 128, 255}, // x4, песочно-жёлтый
	}
	// множители скорости по нажатию кнопки
	SpeedFactors = []float64{1, 2, 4}
)
