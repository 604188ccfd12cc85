package mocks

//go:generate mockgen -destination=./mock_bar_loader.go -package=mocks github.com/rxtech-lab/argo-daily/internal/datasource BarLoader
//go:generate mockgen -destination=./mock_recorder.go -package=mocks github.com/rxtech-lab/argo-daily/internal/recorder Recorder
