// Package fuzztests houses Go fuzz harnesses for the report pipeline
// (bytes -> memcheck parser -> attribution). They guard against panics,
// hangs and broken set invariants on arbitrary input.
//
// Назначение: скармливать произвольные байты парсеру отчётов и драйверу.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/memcheck, internal/driver.
package fuzztests
