package plot

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/mapmovie/internal/sunmap"
)

func rampMap(w, h int) *sunmap.Map {
	g := sunmap.NewGrid(w, h)
	for i := range g.Values {
		g.Values[i] = float64(i)
	}
	return sunmap.New(g, sunmap.Meta{Instrument: "AIA", Measurement: "171"}, sunmap.Helioprojective(w, h, 1))
}

func TestAddSubplot_ColumnsShareOneRow(t *testing.T) {
	fig := NewFigure(12, 4)
	var axes []*Axes
	for i := 1; i <= 3; i++ {
		ax, err := fig.AddSubplot(1, 3, i, sunmap.PixelProjection())
		require.NoError(t, err)
		axes = append(axes, ax)
	}
	assert.Equal(t, axes, fig.Axes())

	width := axes[0].Position.X1 - axes[0].Position.X0
	for i, ax := range axes {
		assert.InDelta(t, width, ax.Position.X1-ax.Position.X0, 1e-9, "axes %d width", i)
		assert.InDelta(t, 0.11, ax.Position.Y0, 1e-9)
		assert.InDelta(t, 0.88, ax.Position.Y1, 1e-9)
		if i > 0 {
			assert.Greater(t, ax.Position.X0, axes[i-1].Position.X1, "axes %d overlaps", i)
		}
	}
	assert.InDelta(t, 0.125, axes[0].Position.X0, 1e-9)
	assert.InDelta(t, 0.9, axes[2].Position.X1, 1e-9)
}

func TestAddSubplot_BadIndex(t *testing.T) {
	fig := NewFigure(4, 4)
	_, err := fig.AddSubplot(1, 2, 3, sunmap.PixelProjection())
	assert.Error(t, err)
	_, err = fig.AddSubplot(0, 2, 1, sunmap.PixelProjection())
	assert.Error(t, err)
	assert.Empty(t, fig.Axes())
}

func TestPixelSize(t *testing.T) {
	fig := NewFigure(6.4, 4.8)
	assert.Equal(t, image.Pt(640, 480), fig.PixelSize(100))
	assert.Equal(t, image.Pt(1, 1), NewFigure(0, 0).PixelSize(100))
}

func TestColorMaps(t *testing.T) {
	for _, name := range ColorMapNames() {
		cm, err := ColorMapByName(name)
		require.NoError(t, err)
		assert.Equal(t, uint8(0xff), cm.At(0.5).A, name)
	}

	gray, err := ColorMapByName("")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{A: 0xff}, gray.At(-1))
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, gray.At(2))
	assert.Equal(t, gray.Bad, gray.At(math.NaN()))

	_, err = ColorMapByName("rainbow-unicorn")
	assert.ErrorIs(t, err, ErrUnknownColorMap)
}

func TestNorm(t *testing.T) {
	lin := Norm{Kind: NormLinear, VMin: 0, VMax: 10}
	assert.InDelta(t, 0.5, lin.Scale(5), 1e-9)
	assert.Equal(t, 0.0, lin.Scale(-3))
	assert.Equal(t, 1.0, lin.Scale(30))
	assert.True(t, math.IsNaN(lin.Scale(math.NaN())))

	sq := Norm{Kind: NormSqrt, VMin: 0, VMax: 100}
	assert.InDelta(t, 0.5, sq.Scale(25), 1e-9)

	lg := Norm{Kind: NormLog, VMin: 1, VMax: 100}
	assert.InDelta(t, 0.5, lg.Scale(10), 1e-9)
	assert.Equal(t, 0.0, lg.Scale(0))

	flat := Norm{Kind: NormLinear, VMin: 2, VMax: 2}
	assert.Equal(t, 0.0, flat.Scale(2))
	assert.Equal(t, 0.0, flat.Scale(7))
}

func TestAutoNorm(t *testing.T) {
	g := sunmap.NewGrid(3, 1)
	copy(g.Values, []float64{-1, 0, 50})

	n := AutoNorm(NormLinear, g)
	assert.Equal(t, -1.0, n.VMin)
	assert.Equal(t, 50.0, n.VMax)

	n = AutoNorm(NormLog, g)
	assert.Equal(t, 50.0, n.VMin)
	assert.Equal(t, 50.0, n.VMax)

	_, err := ParseNormKind("gamma")
	assert.Error(t, err)
	k, err := ParseNormKind("")
	require.NoError(t, err)
	assert.Equal(t, NormLinear, k)
}

func TestImshow_SetArrayKeepsNorm(t *testing.T) {
	fig := NewFigure(4, 4)
	ax, err := fig.AddSubplot(1, 1, 1, sunmap.Helioprojective(4, 4, 1))
	require.NoError(t, err)

	m := rampMap(4, 4)
	im, err := ax.Imshow(m)
	require.NoError(t, err)
	assert.Equal(t, "AIA 171", ax.Title)
	assert.Equal(t, "Solar X [arcsec]", ax.XLabel)
	assert.Equal(t, 15.0, im.Norm.VMax)

	brighter := sunmap.NewGrid(4, 4)
	for i := range brighter.Values {
		brighter.Values[i] = 1000
	}
	im.SetArray(brighter)
	assert.Equal(t, 15.0, im.Norm.VMax)
	assert.Equal(t, brighter, im.Data())
	assert.Equal(t, []*ImageArtist{im}, ax.Images())
}

func TestImshow_ExplicitLimitsAndBadSettings(t *testing.T) {
	fig := NewFigure(4, 4)
	ax, err := fig.AddSubplot(1, 1, 1, sunmap.PixelProjection())
	require.NoError(t, err)

	m := rampMap(2, 2)
	m.Plot = sunmap.PlotSettings{Cmap: "hot", Norm: "sqrt", VMin: 1, VMax: 3}
	im, err := ax.Imshow(m)
	require.NoError(t, err)
	assert.Equal(t, Norm{Kind: NormSqrt, VMin: 1, VMax: 3}, im.Norm)
	assert.Equal(t, "hot", im.Cmap.Name)

	m.Plot.Cmap = "nope"
	_, err = ax.Imshow(m)
	assert.ErrorIs(t, err, ErrUnknownColorMap)
}

func TestColorize_OriginLower(t *testing.T) {
	fig := NewFigure(2, 2)
	ax, err := fig.AddSubplot(1, 1, 1, sunmap.PixelProjection())
	require.NoError(t, err)

	g := sunmap.NewGrid(1, 2)
	g.Set(0, 0, 0) // bottom, dark
	g.Set(0, 1, 1) // top, bright
	im, err := ax.Imshow(sunmap.New(g, sunmap.Meta{}, sunmap.PixelProjection()))
	require.NoError(t, err)

	img := im.Colorize()
	assert.Equal(t, uint8(0xff), img.RGBAAt(0, 0).R)
	assert.Equal(t, uint8(0), img.RGBAAt(0, 1).R)
}

func TestRender_DrawsImageInsideAxes(t *testing.T) {
	fig := NewFigure(2, 2)
	ax, err := fig.AddSubplot(1, 1, 1, sunmap.PixelProjection())
	require.NoError(t, err)

	g := sunmap.NewGrid(4, 4) // all zero: black under the gray colormap
	_, err = ax.Imshow(sunmap.New(g, sunmap.Meta{}, sunmap.PixelProjection()))
	require.NoError(t, err)

	img := image.NewRGBA(image.Rectangle{Max: fig.PixelSize(50)})
	fig.RenderTo(img)
	require.Equal(t, image.Rect(0, 0, 100, 100), img.Bounds())

	box := ax.PixelRect(img.Bounds())
	center := image.Pt(box.Min.X+box.Dx()/2, box.Min.Y+box.Dy()/2)
	assert.Equal(t, color.RGBA{A: 0xff}, img.RGBAAt(center.X, center.Y))
	assert.Equal(t, fig.Background, img.RGBAAt(1, 1))
}

func TestImshow_OnlyUnsetLimitIsFitted(t *testing.T) {
	fig := NewFigure(4, 4)
	ax, err := fig.AddSubplot(1, 1, 1, sunmap.PixelProjection())
	require.NoError(t, err)

	m := rampMap(2, 2) // 0..3
	m.Plot = sunmap.PlotSettings{VMin: 1}
	im, err := ax.Imshow(m)
	require.NoError(t, err)
	assert.Equal(t, Norm{Kind: NormLinear, VMin: 1, VMax: 3}, im.Norm)

	m.Plot = sunmap.PlotSettings{VMin: 0, VMax: 10}
	im, err = ax.Imshow(m)
	require.NoError(t, err)
	assert.Equal(t, Norm{Kind: NormLinear, VMin: 0, VMax: 10}, im.Norm)

	m.Plot = sunmap.PlotSettings{Norm: "log", VMax: 10}
	im, err = ax.Imshow(m)
	require.NoError(t, err)
	assert.Equal(t, 1.0, im.Norm.VMin)
	assert.Equal(t, 10.0, im.Norm.VMax)
}

func TestValidateSettings(t *testing.T) {
	assert.NoError(t, ValidateSettings(sunmap.PlotSettings{}))
	assert.NoError(t, ValidateSettings(sunmap.PlotSettings{Cmap: "hot", Norm: "sqrt", VMin: 5}))
	assert.ErrorIs(t, ValidateSettings(sunmap.PlotSettings{Cmap: "jet2"}), ErrUnknownColorMap)
	assert.Error(t, ValidateSettings(sunmap.PlotSettings{Norm: "gamma"}))
	assert.Error(t, ValidateSettings(sunmap.PlotSettings{VMin: 5, VMax: 3}))
	assert.Error(t, ValidateSettings(sunmap.PlotSettings{VMin: 3, VMax: 3}))

	fig := NewFigure(4, 4)
	ax, err := fig.AddSubplot(1, 1, 1, sunmap.PixelProjection())
	require.NoError(t, err)
	m := rampMap(2, 2)
	m.Plot = sunmap.PlotSettings{VMin: 5, VMax: 3}
	_, err = ax.Imshow(m)
	assert.Error(t, err)
	assert.Empty(t, ax.Images())
}
