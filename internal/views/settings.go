package views

import (
	"context"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/domain/studio"
	"github.com/BruksfildServices01/studio-manager/internal/form"
	"github.com/BruksfildServices01/studio-manager/internal/loader"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

// Settings trabalha sempre sobre a linha mais recente. Salvar atualiza
// essa linha ou cria a primeira.
type Settings struct {
	deps Deps

	Latest *loader.Loader[models.StudioSettings]
	Form   *form.Form[models.StudioSettings]
}

func NewSettings(ctx context.Context, deps Deps, user UserFunc) *Settings {
	v := &Settings{deps: deps}

	v.Latest = loader.New(ctx, "studio_settings", func(ctx context.Context) ([]models.StudioSettings, error) {
		return LatestSettings(ctx, deps.Backend.Store)
	}, deps.Logger)

	v.Form = form.NewSettingsForm(deps.Backend.Store.Settings, deps.Validate, form.Options[models.StudioSettings]{
		OnSaved: saved[models.StudioSettings](deps, user, "studio_settings", func() { v.Latest.Reload() }),
	})

	return v
}

// LatestSettings devolve no máximo uma linha, a mais recente.
func LatestSettings(ctx context.Context, store *backend.Store) ([]models.StudioSettings, error) {
	return store.Settings.Select(ctx, backend.Query{
		Order: []backend.Order{backend.Desc("created_at")},
		Limit: 1,
	})
}

// Current devolve a configuração vigente (nil se não houver) e o horário
// já validado. ok=false indica horário gravado fora do formato, trocado
// pelo padrão.
func (v *Settings) Current(ctx context.Context) (*models.StudioSettings, studio.BusinessHours, bool, error) {
	snap, err := v.Latest.Ensure(ctx)
	if err != nil {
		return nil, studio.DefaultBusinessHours(), true, err
	}
	if snap.Err != nil {
		return nil, studio.DefaultBusinessHours(), true, snap.Err
	}
	if len(snap.Data) == 0 {
		return nil, studio.DefaultBusinessHours(), true, nil
	}

	row := snap.Data[0]
	hours, ok := studio.ParseOrDefault(row.HorasFuncionamento)
	return &row, hours, ok, nil
}

// OpenForm abre o formulário sobre a linha vigente, ou vazio.
func (v *Settings) OpenForm(ctx context.Context) error {
	return v.open(ctx, v.Form)
}

// Draft abre um fork do formulário só para uma requisição.
func (v *Settings) Draft(ctx context.Context) (*form.Form[models.StudioSettings], error) {
	f := v.Form.Fork()
	if err := v.open(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (v *Settings) open(ctx context.Context, f *form.Form[models.StudioSettings]) error {
	current, hours, _, err := v.Current(ctx)
	if err != nil {
		return err
	}
	if current == nil {
		f.Open(nil)
		return nil
	}

	row := *current
	row.HorasFuncionamento = hours.JSON()
	f.Open(&row)
	return nil
}

// SetLogo grava a URL do logo enviado no rascunho da aba.
func (v *Settings) SetLogo(url string) error {
	return SetLogo(v.Form, url)
}

func SetLogo(f *form.Form[models.StudioSettings], url string) error {
	return f.Edit(func(s *models.StudioSettings) { s.LogoURL = &url })
}

func (v *Settings) Close() {
	v.Latest.Close()
	v.Form.Close()
}
