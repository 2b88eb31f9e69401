// cmd/worldview/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"radar-ppi/internal/app"
	"radar-ppi/internal/config"
	"radar-ppi/internal/log"
	"radar-ppi/internal/utils"
	"radar-ppi/pkg/heightmap"
	mathutil "radar-ppi/pkg/utils"
)

var (
	configFile = flag.String("config", "", "YAML settings file; built-in reference scene if empty")
	relief     = flag.Float64("relief", 4, "vertical exaggeration of terrain and targets")
)

const (
	screenWidth  = 1280
	screenHeight = 720
	ppiSize      = 256 // размер мини-индикатора в углу
)

// fieldImage converts elevations back into an 8-bit gray image for the mesh generator.
func fieldImage(f *heightmap.Field) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	top := f.MaxHeight
	if top <= 0 {
		top = 1
	}
	for row := 0; row < f.Height; row++ {
		for col := 0; col < f.Width; col++ {
			img.Pix[row*img.Stride+col] = uint8(mathutil.Clamp01(f.At(col, row)/top) * 255)
		}
	}
	return img
}

// toScene maps world (x east, y north, z up) onto raylib (X right, Y up, -Z north).
func toScene(p mathutil.Vec3, vertical float32) rl.Vector3 {
	return rl.NewVector3(float32(p.X), float32(p.Z)*vertical, float32(-p.Y))
}

func main() {
	flag.Parse()

	s := config.Default()
	if *configFile != "" {
		var err error
		if s, err = config.Load(*configFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	s.DisplaySize = ppiSize
	lg := log.New(s.Log.Level, s.Log.Dir)

	field, err := app.LoadField(context.Background(), s.Heightmap, app.NewFieldCache(s.Heightmap, lg), lg)
	if err != nil {
		lg.Errorf("heightmap: %v", err)
		os.Exit(1)
	}
	r, err := app.New(s, field, nil, lg)
	if err != nil {
		lg.Errorf("radar: %v", err)
		os.Exit(1)
	}
	vertical := float32(*relief)
	backgroundColor := rl.NewColor(10, 10, 20, 255)

	rl.InitWindow(screenWidth, screenHeight, "World View | Q/E - Rotate, Mouse Wheel - Change Angle, Space - Pause")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	// --- Рельеф ---
	half := float32(s.MapSize / 2)
	mesh := rl.GenMeshHeightmap(*rl.NewImageFromImage(fieldImage(field)),
		rl.NewVector3(float32(s.MapSize), float32(field.MaxHeight)*vertical, float32(s.MapSize)))
	terrain := rl.LoadModelFromMesh(mesh)
	defer rl.UnloadModel(terrain)
	terrainPos := rl.NewVector3(-half, 0, -half)

	ppi := rl.LoadTextureFromImage(rl.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, ppiSize, ppiSize))))
	defer rl.UnloadTexture(ppi)
	pixels := make([]color.RGBA, ppiSize*ppiSize)

	// --- Камера ---
	camera := rl.Camera3D{Up: rl.NewVector3(0, 1, 0), Projection: rl.CameraPerspective}
	radius := float32(s.MapSize) * 0.9
	yaw, targetYaw := float32(math.Pi/4), float32(math.Pi/4)
	angleT := float32(0.3)
	antenna := toScene(r.World.Sensor.Origin().Add(mathutil.V3(0, 0, r.World.Sensor.AntennaHeight())), vertical)

	for !rl.WindowShouldClose() {
		if rl.IsKeyDown(rl.KeyQ) {
			targetYaw = utils.NormalizeAngle(targetYaw - 0.03)
		}
		if rl.IsKeyDown(rl.KeyE) {
			targetYaw = utils.NormalizeAngle(targetYaw + 0.03)
		}
		if rl.IsKeyPressed(rl.KeySpace) {
			r.TogglePause()
		}
		if rl.IsKeyPressed(rl.KeyUp) {
			r.AdjustGain(config.GainStep)
		}
		if rl.IsKeyPressed(rl.KeyDown) {
			r.AdjustGain(-config.GainStep)
		}
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			angleT = min(max(angleT+wheel*0.05, 0), 0.99)
		}

		r.Tick()

		// плавный поворот по кратчайшей дуге
		yaw = utils.LerpAngle(yaw, targetYaw, 0.15)
		elevation := utils.Lerp(0.35, 1.5, angleT)
		camera.Position = rl.NewVector3(
			radius*float32(math.Cos(float64(elevation)))*float32(math.Sin(float64(yaw))),
			radius*float32(math.Sin(float64(elevation))),
			radius*float32(math.Cos(float64(elevation)))*float32(math.Cos(float64(yaw))),
		)
		camera.Fovy = utils.Lerp(55, 35, angleT)

		if img := r.Frame().Image; img != nil {
			for i := range pixels {
				pixels[i] = color.RGBA{img.Pix[4*i], img.Pix[4*i+1], img.Pix[4*i+2], img.Pix[4*i+3]}
			}
			rl.UpdateTexture(ppi, pixels)
		}

		snap := r.World.Sensor.Snapshot()
		sin, cos := math.Sincos(mathutil.Radians(snap.SweepDeg))
		reach := float32(snap.MaxRange)

		rl.BeginDrawing()
		rl.ClearBackground(backgroundColor)
		rl.BeginMode3D(camera)

		rl.DrawModel(terrain, terrainPos, 1, rl.NewColor(90, 110, 90, 255))
		rl.DrawModelWires(terrain, terrainPos, 1, rl.NewColor(40, 60, 40, 255))

		rl.DrawCylinder(rl.NewVector3(antenna.X, 0, antenna.Z), 4, 4, antenna.Y, 8, rl.SkyBlue)
		rl.DrawLine3D(antenna, rl.Vector3Add(antenna, rl.NewVector3(float32(sin)*reach, 0, float32(-cos)*reach)), rl.Lime)
		rl.DrawCircle3D(rl.NewVector3(antenna.X, 1, antenna.Z), reach, rl.NewVector3(1, 0, 0), 90, rl.DarkGreen)

		for _, id := range r.World.ECS.TargetIDs() {
			pos, err := r.World.Position(id)
			if err != nil {
				continue
			}
			echo, _ := r.World.Echo(id, snap)
			c := rl.DarkGray
			if echo.Detected {
				k := echo.Illumination
				c = rl.NewColor(uint8(255*k), uint8(255*k), 0, 255)
			}
			p := toScene(pos, vertical)
			rl.DrawSphere(p, 6, c)
			rl.DrawLine3D(rl.NewVector3(p.X, 0, p.Z), p, rl.Gray)
		}

		rl.EndMode3D()

		// --- UI ---
		rl.DrawTexture(ppi, screenWidth-ppiSize-10, 10, rl.White)
		status := fmt.Sprintf("sweep %5.1f  gain %.2f", snap.SweepDeg, snap.Gain)
		if r.Paused() {
			status += "  PAUSED"
		}
		rl.DrawText(status, 10, 10, 20, rl.White)
		rl.DrawFPS(10, 40)

		rl.EndDrawing()
	}
}
