package server

import (
	"net/http"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/df07/go-bvh-raytracer/pkg/renderer"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	UV           [2]float64             `json:"uv"`
	Distance     float64                `json:"distance"`
	Triangle     int                    `json:"triangle"`
	MaterialID   int                    `json:"materialId"`
	MaterialName string                 `json:"materialName"`
	Properties   map[string]interface{} `json:"properties"`
}

// extractMaterialInfo describes a material and the albedo sampled at the hit
func extractMaterialInfo(s *scene.Scene, m scene.Material, albedo mgl64.Vec4, dudv mgl64.Vec2) map[string]interface{} {
	properties := map[string]interface{}{
		"color":  hexColor(m.Color),
		"albedo": hexColor(albedo),
	}
	if m.TextureID != scene.NoTexture {
		properties["textureId"] = m.TextureID
		properties["footprint"] = [2]float64{dudv[0], dudv[1]}
		if it, ok := s.Textures[m.TextureID].(interface {
			Width() int
			Height() int
			NumLevels() int
		}); ok {
			properties["textureSize"] = [2]int{it.Width(), it.Height()}
			properties["mipLevels"] = it.NumLevels()
		}
	}
	return properties
}

func hexColor(c mgl64.Vec4) string {
	return colorful.LinearRgb(c[0], c[1], c[2]).Clamped().Hex()
}

// handleInspect casts the primary ray through one pixel and reports the hit
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	cfg, err := s.requestConfig(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sceneObj, err := s.createScene(cfg, s.log)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	camera := cfg.NewCamera(sceneObj)
	isect, hit := sceneObj.Intersect(camera.PixelRay(pixelX, pixelY))
	if !hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	dudv := renderer.ComputeUVFootprint(camera.CornerRays(pixelX, pixelY), isect, sceneObj.Soup)
	m := sceneObj.Materials[isect.MaterialID]
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		Point:        [3]float64{isect.Position[0], isect.Position[1], isect.Position[2]},
		Normal:       [3]float64{isect.Normal[0], isect.Normal[1], isect.Normal[2]},
		UV:           [2]float64{isect.UV[0], isect.UV[1]},
		Distance:     isect.T,
		Triangle:     isect.Triangle,
		MaterialID:   isect.MaterialID,
		MaterialName: m.Name,
		Properties:   extractMaterialInfo(sceneObj, m, sceneObj.Albedo(isect, dudv), dudv),
	})
}
