package render

import (
	"html/template"
	"math"
	"strconv"
)

var funcs = template.FuncMap{
	"px":   px,
	"temp": func(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) },
	"half": func(v float64) float64 { return v / 2 },
	"add":  func(a, b float64) float64 { return a + b },
	"sub":  func(a, b float64) float64 { return a - b },
	"neg":  func(v float64) float64 { return -v },
}

// px formats a coordinate with at most three decimals.
func px(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

var chartTemplate = template.Must(template.New("chart").Funcs(funcs).Parse(
	`<svg xmlns="http://www.w3.org/2000/svg" class="heatmap" data-layout="{{.Layout.Name}}" viewBox="0 0 {{px .Layout.Width}} {{px .Layout.Height}}" preserveAspectRatio="xMinYMin meet" font-family="sans-serif">
<text id="title" x="{{px (half .Layout.Width)}}" y="{{px (sub .Layout.Padding 30)}}" text-anchor="middle" font-size="24">{{.Title}}</text>
<text id="description" x="{{px (half .Layout.Width)}}" y="{{px (sub .Layout.Padding 10)}}" text-anchor="middle" font-size="18">{{.Subtitle}}</text>
<g id="x-axis" transform="translate(0,{{px .XAxisY}})" font-size="12">
<path class="domain" d="M{{px .YAxisX}},0H{{px (sub .Layout.Width .Layout.Padding)}}" stroke="currentColor"/>
{{- range .XTicks}}
<g class="tick" transform="translate({{px .Position}},0)"><line y2="6" stroke="currentColor"/><text y="9" dy="0.71em" text-anchor="middle">{{.Label}}</text></g>
{{- end}}
</g>
<g id="y-axis" transform="translate({{px .YAxisX}},0)" font-size="12">
<path class="domain" d="M0,{{px .Layout.Padding}}V{{px .XAxisY}}" stroke="currentColor"/>
{{- range .YTicks}}
<g class="tick" transform="translate(0,{{px .Position}})"><line x2="-6" stroke="currentColor"/><text x="-9" dy="0.32em" text-anchor="end">{{.Label}}</text></g>
{{- end}}
</g>
<text class="axis-label" x="{{px (half .Layout.Width)}}" y="{{px (sub .Layout.Height 35)}}" text-anchor="middle" font-size="16">Year</text>
<text class="axis-label" transform="rotate(-90)" x="{{px (neg (half .Layout.Height))}}" y="15" text-anchor="middle" font-size="16">Month</text>
<g id="cells">
{{- range .Cells}}
<rect class="cell" x="{{px .X}}" y="{{px .Y}}" width="{{px .Width}}" height="{{px .Height}}" fill="{{.Fill}}" data-year="{{.Year}}" data-month="{{.Month}}" data-temp="{{temp .Temp}}" data-variance="{{temp .Variance}}"><title>{{.Tooltip.Heading}}&#10;{{.Tooltip.Temperature}}&#10;{{.Tooltip.Variance}}</title></rect>
{{- end}}
</g>
</svg>
`))

var legendTemplate = template.Must(template.New("legend").Funcs(funcs).Parse(
	`<svg xmlns="http://www.w3.org/2000/svg" class="legend" viewBox="0 0 {{px .Width}} {{px .Height}}" preserveAspectRatio="xMinYMin meet" font-family="sans-serif">
{{- range .Swatches}}
<rect class="swatch" x="{{px .X}}" y="{{px .Y}}" width="{{px .Width}}" height="{{px .Height}}" fill="{{.Fill}}" data-min="{{temp .Lo}}" data-max="{{temp .Hi}}"/>
<text class="swatch-label" x="{{px (add .X (half .Width))}}" y="{{px (add .Y (half .Height))}}" dy="0.32em" text-anchor="middle" font-size="7" fill="{{.TextFill}}">{{.Label}}</text>
{{- end}}
<g id="legend-axis" transform="translate(0,{{px .AxisY}})" font-size="10">
<path class="domain" d="M0,0H{{px .Width}}" stroke="currentColor"/>
{{- range .Ticks}}
<g class="tick" transform="translate({{px .Position}},0)"><line y2="6" stroke="currentColor"/><text y="9" dy="0.71em" text-anchor="middle">{{.Label}}</text></g>
{{- end}}
</g>
</svg>
`))

type pageData struct {
	Title     string
	Subtitle  string
	ChartSVG  template.HTML
	LegendSVG template.HTML
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 0 auto; max-width: 960px; padding: 1rem; }
.chart svg, .legend-box svg { width: 100%; height: auto; }
.legend-box { max-width: 600px; margin: 0 auto; }
.tooltip { position: absolute; pointer-events: none; visibility: hidden; background: rgba(0, 0, 0, 0.8); color: #fff; border-radius: 4px; padding: 0.25rem 0.5rem; font-size: 0.8rem; }
.tooltip.visible { visibility: visible; }
.tooltip p { margin: 0.2rem 0; }
rect.cell:hover { stroke: #000; stroke-width: 1; }
</style>
</head>
<body>
<div class="chart">{{.ChartSVG}}</div>
<div class="legend-box">{{.LegendSVG}}</div>
<div class="tooltip" id="tooltip"></div>
<script>
const tip = document.getElementById('tooltip');
document.querySelectorAll('rect.cell').forEach((cell) => {
  cell.addEventListener('mouseover', (e) => {
    tip.replaceChildren();
    cell.querySelector('title').textContent.split('\n').forEach((line) => {
      const p = document.createElement('p');
      p.textContent = line;
      tip.appendChild(p);
    });
    tip.style.left = (e.pageX + 12) + 'px';
    tip.style.top = (e.pageY + 12) + 'px';
    tip.classList.add('visible');
  });
  cell.addEventListener('mouseout', () => tip.classList.remove('visible'));
});
</script>
</body>
</html>
`))
