package calendar

import "errors"

var (
	// ErrShopNotFound возвращается, когда у салона нет настроек
	ErrShopNotFound = errors.New("calendar.repository: shop not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("calendar.repository: service not found")

	// ErrStaffNotFound возвращается, когда мастер не найден в салоне
	ErrStaffNotFound = errors.New("calendar.repository: staff not found")

	// ErrNotFound возвращается, когда удаляемое правило не найдено
	ErrNotFound = errors.New("calendar.repository: rule not found")

	// ErrConflict возвращается при нарушении уникальности правила
	ErrConflict = errors.New("calendar.repository: rule already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("calendar.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("calendar.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("calendar.repository: failed to scan row")
)
